// Package load parses the Go files of a package into DST.
package load

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"golang.org/x/tools/go/packages"
)

// PackageDST loads a package by import path and returns its DST files and FileSet.
// "." is the package in the working directory, and includes its test files.
func PackageDST(importPath string) ([]*dst.File, *token.FileSet, error) {
	dir, err := PackageDir(importPath)
	if err != nil {
		return nil, nil, err
	}

	return DirDST(dir, importPath == ".")
}

// DirDST parses the .go files in dir, skipping test files unless includeTests is set. Files that
// fail to parse are skipped.
func DirDST(dir string, includeTests bool) ([]*dst.File, *token.FileSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	fset := token.NewFileSet()
	dec := decorator.NewDecorator(fset)
	files := make([]*dst.File, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}

		if !includeTests && strings.HasSuffix(name, "_test.go") {
			continue
		}

		file, err := dec.ParseFile(filepath.Join(dir, name), nil, 0)
		if err != nil {
			continue
		}

		files = append(files, file)
	}

	if len(files) == 0 {
		return nil, nil, fmt.Errorf("%w: no parsable .go files in %s", errNoPackagesFound, dir)
	}

	return files, fset, nil
}

// PackageDir resolves an import path to the directory holding its source.
func PackageDir(importPath string) (string, error) {
	if importPath == "." {
		dir, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}

		return dir, nil
	}

	if local := ResolveLocalPackagePath(importPath); local != importPath {
		return local, nil
	}

	pkgs, err := packages.Load(&packages.Config{Mode: packages.NeedName | packages.NeedFiles}, importPath)
	if err != nil {
		return "", fmt.Errorf("failed to find package %q: %w", importPath, err)
	}

	for _, pkg := range pkgs {
		if len(pkg.GoFiles) > 0 {
			return filepath.Dir(pkg.GoFiles[0]), nil
		}
	}

	return "", fmt.Errorf("%w: %s", errNoPackagesFound, importPath)
}

// ResolveLocalPackagePath checks if importPath refers to a local subdirectory package.
// For simple package names (no slashes), it checks if there's a local subdirectory
// with that name containing .go files. This handles local packages shadowing stdlib
// packages (e.g., a local "time" package shadowing stdlib "time").
//
// Returns the absolute path to the local package directory if found, or the
// original importPath if it should be resolved normally.
func ResolveLocalPackagePath(importPath string) string {
	if importPath == "." || filepath.IsAbs(importPath) || strings.Contains(importPath, "/") {
		return importPath
	}

	srcDir, err := os.Getwd()
	if err != nil {
		return importPath
	}

	localDir := filepath.Join(srcDir, importPath)

	entries, err := os.ReadDir(localDir)
	if err != nil {
		return importPath
	}

	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".go") {
			return localDir
		}
	}

	return importPath
}

// unexported variables.
var (
	errNoPackagesFound = errors.New("no packages found")
)
