// Package astutil renders DST type expressions back to Go source.
package astutil

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/dave/dst"
)

// Qualifier rewrites a bare identifier found in a type expression, such as adding the package
// prefix of the package the interface was declared in. It returns the name unchanged to keep it.
type Qualifier func(name string) string

// ExpandFieldListTypes expands a field list into one type string per declared name, or one for
// an unnamed field.
func ExpandFieldListTypes(fields []*dst.Field, render func(dst.Expr) string) []string {
	var parts []string

	for _, f := range fields {
		typeStr := render(f.Type)

		count := len(f.Names)
		if count == 0 {
			count = 1
		}

		for range count {
			parts = append(parts, typeStr)
		}
	}

	return parts
}

// IsPredeclared reports whether name is a predeclared Go type identifier.
func IsPredeclared(name string) bool {
	_, ok := predeclared[name]

	return ok
}

// NoQualifier keeps every identifier unchanged.
func NoQualifier(name string) string {
	return name
}

// PackageQualifier prefixes exported, non-predeclared identifiers with pkg.
func PackageQualifier(pkg string) Qualifier {
	return func(name string) string {
		if IsPredeclared(name) || !token.IsExported(name) {
			return name
		}

		return pkg + "." + name
	}
}

// SelectorPackages returns the package names used as selector prefixes anywhere in expr.
func SelectorPackages(expr dst.Expr) []string {
	var names []string

	dst.Inspect(expr, func(node dst.Node) bool {
		selector, ok := node.(*dst.SelectorExpr)
		if !ok {
			return true
		}

		if ident, ok := selector.X.(*dst.Ident); ok {
			names = append(names, ident.Name)
		}

		return false
	})

	return names
}

// StringifyExpr renders expr with identifiers kept as written.
func StringifyExpr(expr dst.Expr) string {
	return TypeString(expr, NoQualifier)
}

// TypeString renders a DST type expression, passing bare identifiers through qualify.
//
//nolint:cyclop,funlen // Type-switch dispatcher handling all DST expression types; complexity is inherent
func TypeString(expr dst.Expr, qualify Qualifier) string {
	if expr == nil {
		return ""
	}

	render := func(e dst.Expr) string { return TypeString(e, qualify) }

	switch typedExpr := expr.(type) {
	case *dst.Ident:
		return qualify(typedExpr.Name)
	case *dst.BasicLit:
		return typedExpr.Value
	case *dst.SelectorExpr:
		// selectors already name their package
		return StringifyExpr(typedExpr.X) + "." + typedExpr.Sel.Name
	case *dst.StarExpr:
		return "*" + render(typedExpr.X)
	case *dst.ArrayType:
		if typedExpr.Len != nil {
			return "[" + StringifyExpr(typedExpr.Len) + "]" + render(typedExpr.Elt)
		}

		return "[]" + render(typedExpr.Elt)
	case *dst.MapType:
		return "map[" + render(typedExpr.Key) + "]" + render(typedExpr.Value)
	case *dst.ChanType:
		switch typedExpr.Dir {
		case dst.SEND:
			return "chan<- " + render(typedExpr.Value)
		case dst.RECV:
			return "<-chan " + render(typedExpr.Value)
		default:
			return "chan " + render(typedExpr.Value)
		}
	case *dst.InterfaceType:
		return interfaceString(typedExpr, render)
	case *dst.StructType:
		return structString(typedExpr, render)
	case *dst.FuncType:
		return "func" + signatureString(typedExpr, render)
	case *dst.Ellipsis:
		return "..." + render(typedExpr.Elt)
	case *dst.IndexExpr:
		return render(typedExpr.X) + "[" + render(typedExpr.Index) + "]"
	case *dst.IndexListExpr:
		indices := make([]string, len(typedExpr.Indices))
		for i, idx := range typedExpr.Indices {
			indices[i] = render(idx)
		}

		return render(typedExpr.X) + "[" + strings.Join(indices, ", ") + "]"
	case *dst.ParenExpr:
		return "(" + render(typedExpr.X) + ")"
	default:
		return fmt.Sprintf("%T", expr)
	}
}

// unexported variables.
var (
	//nolint:gochecknoglobals // lookup table of the universe scope's type names
	predeclared = map[string]struct{}{
		"any": {}, "bool": {}, "byte": {}, "comparable": {}, "complex64": {}, "complex128": {},
		"error": {}, "float32": {}, "float64": {}, "int": {}, "int8": {}, "int16": {}, "int32": {},
		"int64": {}, "rune": {}, "string": {}, "uint": {}, "uint8": {}, "uint16": {}, "uint32": {},
		"uint64": {}, "uintptr": {},
	}
)

func interfaceString(interfaceType *dst.InterfaceType, render func(dst.Expr) string) string {
	if interfaceType.Methods == nil || len(interfaceType.Methods.List) == 0 {
		return "interface{}"
	}

	parts := make([]string, 0, len(interfaceType.Methods.List))

	for _, method := range interfaceType.Methods.List {
		funcType, ok := method.Type.(*dst.FuncType)
		if !ok || len(method.Names) == 0 {
			parts = append(parts, render(method.Type))

			continue
		}

		parts = append(parts, method.Names[0].Name+signatureString(funcType, render))
	}

	return "interface{ " + strings.Join(parts, "; ") + " }"
}

func signatureString(funcType *dst.FuncType, render func(dst.Expr) string) string {
	var buf strings.Builder

	buf.WriteString("(")

	if funcType.Params != nil {
		buf.WriteString(strings.Join(ExpandFieldListTypes(funcType.Params.List, render), ", "))
	}

	buf.WriteString(")")

	if funcType.Results == nil || len(funcType.Results.List) == 0 {
		return buf.String()
	}

	results := ExpandFieldListTypes(funcType.Results.List, render)
	if len(results) == 1 {
		buf.WriteString(" " + results[0])
	} else {
		buf.WriteString(" (" + strings.Join(results, ", ") + ")")
	}

	return buf.String()
}

func structString(structType *dst.StructType, render func(dst.Expr) string) string {
	if structType.Fields == nil || len(structType.Fields.List) == 0 {
		return "struct{}"
	}

	fields := make([]string, 0, len(structType.Fields.List))

	for _, field := range structType.Fields.List {
		var fieldStr strings.Builder

		if len(field.Names) > 0 {
			names := make([]string, len(field.Names))
			for i, name := range field.Names {
				names[i] = name.Name
			}

			fieldStr.WriteString(strings.Join(names, ", ") + " ")
		}

		fieldStr.WriteString(render(field.Type))

		if field.Tag != nil {
			fieldStr.WriteString(" " + field.Tag.Value)
		}

		fields = append(fields, fieldStr.String())
	}

	return "struct{ " + strings.Join(fields, "; ") + " }"
}
