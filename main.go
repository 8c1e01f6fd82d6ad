package main

import "github.com/itsmostafa/docdash/cmd"

func main() {
	cmd.Execute()
}
