// Package detect finds an interface in parsed packages and collects the method set a proxy for it
// has to implement.
package detect

import (
	"errors"
	"fmt"
	"go/token"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dave/dst"

	astutil "github.com/toejough/impmock/impgen/run/0_util"
)

// Interface is the method set of one interface, with types rendered for the generated file.
type Interface struct {
	// Name is the interface as the generated file refers to it: Service or pkg.Service.
	Name    string
	Methods []Method
	// Imports maps every package name the rendered types use to its import path.
	Imports map[string]string
}

// HasMethod reports whether the interface declares a method called name.
func (i *Interface) HasMethod(name string) bool {
	for _, method := range i.Methods {
		if method.Name == name {
			return true
		}
	}

	return false
}

// Method is one method of an Interface.
type Method struct {
	Name     string
	Params   []Param
	Results  []string
	Variadic bool
}

// PackageLoader defines an interface for loading Go packages.
type PackageLoader interface {
	Load(importPath string) ([]*dst.File, *token.FileSet, error)
}

// Param is a named method parameter. The variadic parameter's type starts with "...".
type Param struct {
	Name string
	Type string
}

// Find locates the interface name, plain or qualified as pkg.Name, starting from files, the
// package the generated file belongs to.
func Find(files []*dst.File, name string, loader PackageLoader) (*Interface, error) {
	pkgName, localName, qualified := strings.Cut(name, ".")
	if !qualified {
		localName, pkgName = pkgName, ""
	}

	found := &Interface{Name: name, Imports: make(map[string]string)}
	collector := &collector{loader: loader, iface: found, seen: make(map[string]bool)}

	scope := packageScope{files: files, qualify: astutil.NoQualifier}

	if qualified {
		importPath := importPathFor(files, pkgName)

		loaded, _, err := loader.Load(importPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load package %q for %s: %w", importPath, name, err)
		}

		scope = packageScope{files: loaded, qualify: astutil.PackageQualifier(pkgName)}
		found.Imports[pkgName] = importPath
	}

	err := collector.collect(scope, localName)
	if err != nil {
		return nil, err
	}

	sort.Slice(found.Methods, func(i, j int) bool { return found.Methods[i].Name < found.Methods[j].Name })
	nameParams(found)

	return found, nil
}

// ImportName returns the name a package is referred to by when imported through spec.
func ImportName(spec *dst.ImportSpec) string {
	if spec.Name != nil {
		return spec.Name.Name
	}

	importPath, _ := strconv.Unquote(spec.Path.Value)
	base := path.Base(importPath)

	// github.com/x/y/v2 is imported as y, gopkg.in/y.v2 as y
	if majorVersion.MatchString(base) {
		base = path.Base(path.Dir(importPath))
	}

	if gopkgIn, _, ok := strings.Cut(base, ".v"); ok {
		base = gopkgIn
	}

	return strings.ReplaceAll(base, "-", "_")
}

// unexported variables.
var (
	errGenericInterface = errors.New("generic interfaces cannot be mocked")
	errNotFound         = errors.New("interface not found")
	errNotInterface     = errors.New("not an interface")
	errTypeSet          = errors.New("constraint interfaces cannot be mocked")
	//nolint:gochecknoglobals // compiled once
	majorVersion = regexp.MustCompile(`^v[0-9]+$`)
	//nolint:gochecknoglobals // identifiers generated method bodies use
	reserved = map[string]bool{"_": true, "p": true, "res": true, "impmock": true}
)

type collector struct {
	loader PackageLoader
	iface  *Interface
	seen   map[string]bool
}

func (c *collector) addImports(file *dst.File, expr dst.Expr) {
	for _, pkgName := range astutil.SelectorPackages(expr) {
		for _, spec := range file.Imports {
			if ImportName(spec) != pkgName {
				continue
			}

			importPath, _ := strconv.Unquote(spec.Path.Value)
			c.iface.Imports[pkgName] = importPath
		}
	}
}

func (c *collector) addMethod(method Method) {
	if c.iface.HasMethod(method.Name) {
		return
	}

	c.iface.Methods = append(c.iface.Methods, method)
}

func (c *collector) collect(scope packageScope, name string) error {
	key := fmt.Sprintf("%p.%s", scope.files, name)
	if c.seen[key] {
		return nil
	}

	c.seen[key] = true

	spec, file := findTypeSpec(scope.files, name)
	if spec == nil {
		return fmt.Errorf("%w: %s", errNotFound, name)
	}

	if spec.TypeParams != nil && len(spec.TypeParams.List) > 0 {
		return fmt.Errorf("%w: %s", errGenericInterface, name)
	}

	ifaceType, ok := spec.Type.(*dst.InterfaceType)
	if !ok {
		return fmt.Errorf("%w: %s", errNotInterface, name)
	}

	if ifaceType.Methods == nil {
		return nil
	}

	for _, field := range ifaceType.Methods.List {
		err := c.collectField(scope, file, field)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

func (c *collector) collectEmbedded(scope packageScope, file *dst.File, embedded dst.Expr) error {
	switch typed := embedded.(type) {
	case *dst.Ident:
		switch typed.Name {
		case "error":
			c.addMethod(Method{Name: "Error", Results: []string{"string"}})

			return nil
		case "any":
			return nil
		}

		return c.collect(scope, typed.Name)
	case *dst.SelectorExpr:
		pkgName, ok := typed.X.(*dst.Ident)
		if !ok {
			return fmt.Errorf("%w: %s", errNotInterface, astutil.StringifyExpr(typed))
		}

		importPath := importPathFor([]*dst.File{file}, pkgName.Name)

		files, _, err := c.loader.Load(importPath)
		if err != nil {
			return fmt.Errorf("failed to load package %q: %w", importPath, err)
		}

		c.iface.Imports[pkgName.Name] = importPath

		return c.collect(packageScope{files: files, qualify: astutil.PackageQualifier(pkgName.Name)}, typed.Sel.Name)
	default:
		return fmt.Errorf("%w: %s", errTypeSet, astutil.StringifyExpr(embedded))
	}
}

func (c *collector) collectField(scope packageScope, file *dst.File, field *dst.Field) error {
	funcType, ok := field.Type.(*dst.FuncType)
	if !ok || len(field.Names) == 0 {
		return c.collectEmbedded(scope, file, field.Type)
	}

	c.addImports(file, funcType)

	method := Method{Name: field.Names[0].Name}

	if funcType.Params != nil {
		for _, param := range funcType.Params.List {
			typeStr := astutil.TypeString(param.Type, scope.qualify)
			if _, variadic := param.Type.(*dst.Ellipsis); variadic {
				method.Variadic = true
			}

			if len(param.Names) == 0 {
				method.Params = append(method.Params, Param{Type: typeStr})

				continue
			}

			for _, paramName := range param.Names {
				method.Params = append(method.Params, Param{Name: paramName.Name, Type: typeStr})
			}
		}
	}

	if funcType.Results != nil {
		render := func(e dst.Expr) string { return astutil.TypeString(e, scope.qualify) }
		method.Results = astutil.ExpandFieldListTypes(funcType.Results.List, render)
	}

	c.addMethod(method)

	return nil
}

type packageScope struct {
	files   []*dst.File
	qualify astutil.Qualifier
}

func findTypeSpec(files []*dst.File, name string) (*dst.TypeSpec, *dst.File) {
	for _, file := range files {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*dst.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}

			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*dst.TypeSpec)
				if ok && typeSpec.Name.Name == name {
					return typeSpec, file
				}
			}
		}
	}

	return nil, nil
}

// importPathFor returns the path files import pkgName from, or pkgName itself for packages such as
// io that are imported by their path.
func importPathFor(files []*dst.File, pkgName string) string {
	for _, file := range files {
		for _, spec := range file.Imports {
			if ImportName(spec) == pkgName {
				importPath, _ := strconv.Unquote(spec.Path.Value)

				return importPath
			}
		}
	}

	return pkgName
}

// nameParams gives every parameter a name that cannot collide with the generated method body or
// the packages it imports.
func nameParams(iface *Interface) {
	for i := range iface.Methods {
		params := iface.Methods[i].Params
		for j := range params {
			_, shadowsImport := iface.Imports[params[j].Name]
			if params[j].Name == "" || reserved[params[j].Name] || shadowsImport {
				params[j].Name = "arg" + strconv.Itoa(j)
			}
		}
	}
}
