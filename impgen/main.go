// impmock/impgen generates proxy adapters that make Go interfaces mockable with impmock.
// Install it with `go install github.com/toejough/impmock/impgen@latest` and add a
// `//go:generate impgen <interface>` comment next to the interface or in a test file. The adapter
// is written to generated_<name>.go (generated_<name>_test.go from test files and packages) and
// provides Register<name>(factory) and New<name>Mock(t). Add `--name <name>` to choose the name,
// and `--check` to fail with a diff instead of writing when the file on disk is stale.
package main

import (
	"fmt"
	"go/token"
	"os"

	"github.com/dave/dst"
	"github.com/fatih/color"

	"github.com/toejough/impmock/impgen/run"
	load "github.com/toejough/impmock/impgen/run/2_load"
)

// main is the entry point of the impgen tool.
func main() {
	if os.Args == nil {
		return
	}

	err := run.Run(os.Args, os.Getenv, &realFileSystem{}, &realPackageLoader{}, color.Output)
	if err != nil {
		_, _ = color.New(color.FgRed, color.Bold).Fprintf(color.Error, "Error: %v\n", err)
		os.Exit(1)
	}
}

// realFileSystem implements FileSystem using os package.
type realFileSystem struct{}

// ReadFile reads the file named by name and returns the contents.
func (fs *realFileSystem) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}

	return data, nil
}

// WriteFile writes data to the file named by name.
func (fs *realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}

// realPackageLoader implements PackageLoader using direct DST parsing.
type realPackageLoader struct{}

// Load loads a package by import path and returns its DST files and FileSet.
func (pl *realPackageLoader) Load(importPath string) ([]*dst.File, *token.FileSet, error) {
	files, fset, err := load.PackageDST(importPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load package %q: %w", importPath, err)
	}

	return files, fset, nil
}
