package generate

import (
	"bytes"
	"fmt"
	"text/template"
)

// TemplateRegistry holds the parsed templates a generated adapter file is written with.
type TemplateRegistry struct {
	headerTmpl   *template.Template
	proxyTmpl    *template.Template
	methodTmpl   *template.Template
	registerTmpl *template.Template
}

// NewTemplateRegistry creates and initializes a new template registry with all templates parsed.
// Templates are hardcoded constants, so parsing cannot fail at runtime.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		headerTmpl:   template.Must(template.New("header").Parse(headerTemplate)),
		proxyTmpl:    template.Must(template.New("proxy").Parse(proxyTemplate)),
		methodTmpl:   template.Must(template.New("method").Parse(methodTemplate)),
		registerTmpl: template.Must(template.New("register").Parse(registerTemplate)),
	}
}

// WriteHeader writes the generated-code banner, package clause and imports.
func (r *TemplateRegistry) WriteHeader(buf *bytes.Buffer, data any) {
	execute(r.headerTmpl, buf, data)
}

// WriteMethod writes one forwarding method.
func (r *TemplateRegistry) WriteMethod(buf *bytes.Buffer, data any) {
	execute(r.methodTmpl, buf, data)
}

// WriteProxy writes the proxy struct and its method table.
func (r *TemplateRegistry) WriteProxy(buf *bytes.Buffer, data any) {
	execute(r.proxyTmpl, buf, data)
}

// WriteRegister writes the registration and constructor functions.
func (r *TemplateRegistry) WriteRegister(buf *bytes.Buffer, data any) {
	execute(r.registerTmpl, buf, data)
}

const (
	headerTemplate = `// Code generated by impgen. DO NOT EDIT.
// Command: {{.Command}}

package {{.PkgName}}

import (
{{- range .Imports}}
	{{.}}
{{- end}}
)
`

	proxyTemplate = `
// {{.ProxyName}} implements {{.InterfaceName}} by forwarding every call to a mock.
type {{.ProxyName}} struct {
	interceptor impmock.Interceptor
}

//nolint:gochecknoglobals // method table shared by every {{.ProxyName}}
var {{.MethodsVar}} = impmock.MethodsOf[{{.InterfaceName}}]()
`

	methodTemplate = `
func (p *{{.ProxyName}}) {{.Name}}({{.Params}}){{.Results}} {
	{{if .ResultExprs}}res := {{end}}impmock.Invoke(p.interceptor, p, {{.Descriptor}}{{.Args}})
{{- if .ResultExprs}}

	return {{.ResultExprs}}
{{- end}}
}
`

	registerTemplate = `
// Register{{.Name}} makes {{.InterfaceName}} mockable through factory.
func Register{{.Name}}(factory *impmock.ProxyFactory) error {
	return impmock.Register[{{.InterfaceName}}](factory, func(interceptor impmock.Interceptor) any {
		return &{{.ProxyName}}{interceptor: interceptor}
	})
}

// New{{.Name}}Mock creates a mock of {{.InterfaceName}} through a factory of its own.
func New{{.Name}}Mock(t impmock.TestReporter, opts ...impmock.Option) *impmock.Mock[{{.InterfaceName}}] {
	t.Helper()

	factory := impmock.NewProxyFactory()
	impmock.MustRegister[{{.InterfaceName}}](factory, func(interceptor impmock.Interceptor) any {
		return &{{.ProxyName}}{interceptor: interceptor}
	})

	return impmock.New[{{.InterfaceName}}](t, factory, opts...)
}
`
)

func execute(tmpl *template.Template, buf *bytes.Buffer, data any) {
	err := tmpl.Execute(buf, data)
	if err != nil {
		panic(fmt.Sprintf("failed to execute %s template: %v", tmpl.Name(), err))
	}
}
