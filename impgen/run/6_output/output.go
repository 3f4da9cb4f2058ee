// Package output writes generated adapters to disk, or checks that the files on disk are current.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
)

// FileSystem is the file access output needs.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// CheckGeneratedCode compares the reordered code against the file on disk. A stale or missing file
// prints a unified diff to out and returns ErrStale.
func CheckGeneratedCode(code, filename string, fileSys FileSystem, out io.Writer) error {
	want := reordered(code, filename, out)

	current, err := fileSys.ReadFile(filename)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error reading %s: %w", filename, err)
	}

	if string(current) == want {
		_, _ = fmt.Fprintf(out, "%s is up to date.\n", filename)

		return nil
	}

	_, _ = fmt.Fprint(out, textdiff.Unified(filename+" (current)", filename+" (generated)", string(current), want))

	return fmt.Errorf("%w: %s", ErrStale, filename)
}

// Filename returns generated_<name>.go, or generated_<name>_test.go when generating into a test
// package or from a test file. This handles both blackbox testing (package xxx_test) and whitebox
// testing (package xxx in xxx_test.go).
func Filename(name, pkgName string, getEnv func(string) string) string {
	name = strings.TrimSuffix(name, ".go")

	isTestFile := strings.HasSuffix(pkgName, "_test") || strings.HasSuffix(getEnv("GOFILE"), "_test.go")
	if isTestFile && !strings.HasSuffix(name, "_test") {
		name += "_test"
	}

	return "generated_" + name + ".go"
}

// WriteGeneratedCode reorders code per project conventions and writes it to filename.
func WriteGeneratedCode(code, filename string, fileSys FileSystem, out io.Writer) error {
	const generatedFilePermissions = 0o600

	err := fileSys.WriteFile(filename, []byte(reordered(code, filename, out)), generatedFilePermissions)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", filename, err)
	}

	_, _ = fmt.Fprintf(out, "%s written successfully.\n", filename)

	return nil
}

// Exported variables.
var (
	ErrStale = errors.New("generated file is stale")
)

func reordered(code, filename string, out io.Writer) string {
	result, err := reorder.Source(code)
	if err != nil {
		// If reordering fails, log but continue with original code
		_, _ = fmt.Fprintf(out, "Warning: failed to reorder %s: %v\n", filename, err)

		return code
	}

	return result
}
