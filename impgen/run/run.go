// Package run implements the main logic for the impgen tool in a testable way.
package run

import (
	"errors"
	"fmt"
	"go/token"
	"io"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/alexflint/go-arg"
	"github.com/dave/dst"

	detect "github.com/toejough/impmock/impgen/run/3_detect"
	generate "github.com/toejough/impmock/impgen/run/5_generate"
	output "github.com/toejough/impmock/impgen/run/6_output"
)

// FileSystem is the file access Run needs.
type FileSystem = output.FileSystem

// PackageLoader loads the DST files of a package by import path; "." is the working directory.
type PackageLoader interface {
	Load(importPath string) ([]*dst.File, *token.FileSet, error)
}

// Run executes the impgen tool logic. It takes command-line arguments, an environment variable
// getter, a FileSystem for file operations, a PackageLoader for package operations, and the writer
// progress is reported to. On success, it writes a Go source file with a proxy adapter for the
// requested interface into the package that invoked go:generate.
func Run(args []string, getEnv func(string) string, fileSys FileSystem, pkgLoader PackageLoader, out io.Writer) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}

	pkgName := getEnv("GOPACKAGE")
	if pkgName == "" {
		return errNoPackage
	}

	files, _, err := pkgLoader.Load(".")
	if err != nil {
		return fmt.Errorf("failed to load the current package: %w", err)
	}

	iface, err := detect.Find(files, parsed.Interface, pkgLoader)
	if err != nil {
		return err
	}

	name := parsed.Name
	if name == "" {
		name = localName(parsed.Interface)
	}

	code, err := generate.Adapter(iface, generate.Config{
		PkgName: pkgName,
		Name:    name,
		Command: commandLine(args),
	})
	if err != nil {
		return err
	}

	filename := output.Filename(name, pkgName, getEnv)

	if parsed.Check {
		return output.CheckGeneratedCode(code, filename, fileSys, out)
	}

	return output.WriteGeneratedCode(code, filename, fileSys, out)
}

// unexported variables.
var (
	errNoPackage = errors.New("GOPACKAGE is not set; run impgen through go generate")
)

// cliArgs defines the command-line arguments for the generator.
type cliArgs struct {
	Interface string `arg:"positional,required" help:"interface to mock (e.g. MyInterface or pkg.MyInterface)"`
	Name      string `arg:"--name"              help:"name for Register<Name> and the generated file (defaults to the interface name)"`
	Check     bool   `arg:"--check"             help:"report a diff and fail instead of writing when the generated file is stale"`
}

// commandLine renders args as a shell command, quoting arguments that need it.
func commandLine(args []string) string {
	quoted := make([]string, 0, len(args))

	for i, arg := range args {
		if i == 0 {
			arg = "impgen"
		}

		quoted = append(quoted, shellescape.Quote(arg))
	}

	return strings.Join(quoted, " ")
}

func localName(interfaceName string) string {
	_, local, qualified := strings.Cut(interfaceName, ".")
	if qualified {
		return local
	}

	return interfaceName
}

// parseArgs parses command-line arguments into cliArgs.
func parseArgs(args []string) (cliArgs, error) {
	var parsed cliArgs

	parser, err := arg.NewParser(arg.Config{Program: "impgen"}, &parsed)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to create argument parser: %w", err)
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	err = parser.Parse(cmdArgs)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return parsed, nil
}
