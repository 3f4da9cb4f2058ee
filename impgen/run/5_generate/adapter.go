// Package generate renders proxy adapters for detected interfaces.
package generate

import (
	"bytes"
	"fmt"
	"go/format"
	"path"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	detect "github.com/toejough/impmock/impgen/run/3_detect"
)

// ImpmockPath is the import path generated adapters use the runtime from.
const ImpmockPath = "github.com/toejough/impmock"

// Config names what the adapter is generated into.
type Config struct {
	// PkgName is the package clause of the generated file.
	PkgName string
	// Name suffixes Register<Name> and New<Name>Mock and names the proxy type.
	Name string
	// Command is the invocation recorded in the file header.
	Command string
}

// Adapter renders a gofmt-ed source file with a proxy for iface, a Register function making iface
// mockable through a factory, and a New<Name>Mock convenience constructor.
func Adapter(iface *detect.Interface, cfg Config) (string, error) {
	registry := NewTemplateRegistry()
	proxyName := lowerFirst(cfg.Name) + "Proxy"
	methodsVar := lowerFirst(cfg.Name) + "Methods"

	var buf bytes.Buffer

	registry.WriteHeader(&buf, struct {
		Command, PkgName string
		Imports          []string
	}{cfg.Command, cfg.PkgName, importLines(iface.Imports)})

	registry.WriteProxy(&buf, struct{ ProxyName, InterfaceName, MethodsVar string }{
		proxyName, iface.Name, methodsVar,
	})

	for _, method := range iface.Methods {
		registry.WriteMethod(&buf, newMethodData(proxyName, methodsVar+".Method("+strconv.Quote(method.Name)+")", method))
	}

	if !iface.HasMethod("String") {
		stringMethod := detect.Method{Name: "String", Results: []string{"string"}}
		registry.WriteMethod(&buf, newMethodData(proxyName, "impmock.StringMethod()", stringMethod))
	}

	registry.WriteRegister(&buf, struct{ Name, InterfaceName, ProxyName string }{
		cfg.Name, iface.Name, proxyName,
	})

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to format generated code for %s: %w", iface.Name, err)
	}

	return string(formatted), nil
}

type methodData struct {
	ProxyName   string
	Name        string
	Params      string
	Results     string
	Descriptor  string
	Args        string
	ResultExprs string
}

// importLines lists standard library imports first, then a blank separator, then the rest.
func importLines(imports map[string]string) []string {
	var std, other []string

	for name, importPath := range imports {
		line := strconv.Quote(importPath)
		if path.Base(importPath) != name {
			line = name + " " + line
		}

		if isStandard(importPath) {
			std = append(std, line)
		} else {
			other = append(other, line)
		}
	}

	other = append(other, strconv.Quote(ImpmockPath))

	sort.Strings(std)
	sort.Strings(other)

	if len(std) == 0 {
		return other
	}

	return append(append(std, ""), other...)
}

// isStandard reports whether importPath names a standard library package: its first element
// has no dot.
func isStandard(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")

	return !strings.Contains(first, ".")
}

func lowerFirst(name string) string {
	first, size := utf8.DecodeRuneInString(name)

	return string(unicode.ToLower(first)) + name[size:]
}

func newMethodData(proxyName, descriptor string, method detect.Method) methodData {
	params := make([]string, len(method.Params))
	args := make([]string, 0, len(method.Params))

	for i, param := range method.Params {
		params[i] = param.Name + " " + param.Type
		args = append(args, ", "+param.Name)
	}

	results := ""

	switch len(method.Results) {
	case 0:
	case 1:
		results = " " + method.Results[0]
	default:
		results = " (" + strings.Join(method.Results, ", ") + ")"
	}

	resultExprs := make([]string, len(method.Results))
	for i, result := range method.Results {
		resultExprs[i] = fmt.Sprintf("impmock.Result[%s](res, %d)", result, i)
	}

	return methodData{
		ProxyName:   proxyName,
		Name:        method.Name,
		Params:      strings.Join(params, ", "),
		Results:     results,
		Descriptor:  descriptor,
		Args:        strings.Join(args, ""),
		ResultExprs: strings.Join(resultExprs, ", "),
	}
}
