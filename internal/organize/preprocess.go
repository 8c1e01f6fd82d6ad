package organize

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultUnwindHeader bounds loop unwinding in the verifier for examples
// that would otherwise never terminate.
const DefaultUnwindHeader = "// cbmc-flags: --unwind 1 --unwinding-assertions"

// Preprocess prepends header to each of the given examples. Paths are slash
// separated and relative to destRoot. Examples that already start with the
// header are left alone so that re-running is harmless.
func Preprocess(destRoot string, examples []string, header string) error {
	if header == "" {
		header = DefaultUnwindHeader
	}
	prefix := []byte(header + "\n")

	for _, example := range examples {
		path := filepath.Join(destRoot, filepath.FromSlash(example))
		code, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("preprocess %s: %w", example, err)
		}
		if bytes.HasPrefix(code, prefix) {
			continue
		}
		if err := os.WriteFile(path, append(append([]byte(nil), prefix...), code...), 0644); err != nil {
			return fmt.Errorf("preprocess %s: %w", example, err)
		}
	}
	return nil
}
