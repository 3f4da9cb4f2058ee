package expr

import (
	"fmt"
	"reflect"
)

// Lambda is a function literal over Params.
type Lambda struct {
	Params []*Parameter
	Body   Node
}

// Fn builds a one-parameter lambda x => build(x), with x of type t.
func Fn(t reflect.Type, build func(x *Parameter) Node) *Lambda {
	param := Param("x", t)

	return NewLambda(build(param), param)
}

// NewLambda builds (params...) => body.
func NewLambda(body Node, params ...*Parameter) *Lambda {
	return &Lambda{Params: params, Body: body}
}

// Kind returns KindLambda.
func (l *Lambda) Kind() Kind { return KindLambda }

// Type returns the lambda's function type.
func (l *Lambda) Type() reflect.Type {
	in := make([]reflect.Type, len(l.Params))
	for i, param := range l.Params {
		in[i] = param.Type()
	}

	var out []reflect.Type
	if l.Body != nil && l.Body.Type() != nil {
		out = []reflect.Type{l.Body.Type()}
	}

	return reflect.FuncOf(in, out, false)
}

func (l *Lambda) buildError() error {
	if l.Body == nil {
		return fmt.Errorf("%w: lambda has no body", ErrBuild)
	}

	return nil
}

// Matcher marks an argument position that accepts any value satisfying Predicate instead of one
// exact value. Args holds the matcher's own arguments for display and structural comparison; an
// Opaque matcher's predicate is not representable as a tree and compares by identity.
type Matcher struct {
	Name      string
	Args      []Node
	Predicate func(value any) bool
	Opaque    bool
	typ       reflect.Type
}

// NewMatcher returns a matcher accepting values of type t for which predicate holds.
func NewMatcher(name string, t reflect.Type, predicate func(any) bool, args ...Node) *Matcher {
	return &Matcher{Name: name, Args: args, Predicate: predicate, typ: t}
}

// NewOpaqueMatcher returns a matcher whose predicate has no tree form.
func NewOpaqueMatcher(name string, t reflect.Type, predicate func(any) bool, args ...Node) *Matcher {
	matcher := NewMatcher(name, t, predicate, args...)
	matcher.Opaque = true

	return matcher
}

// Kind returns KindMatcher.
func (m *Matcher) Kind() Kind { return KindMatcher }

// Matches runs the predicate.
func (m *Matcher) Matches(value any) bool {
	return m.Predicate(value)
}

// Type returns the type the matcher accepts, or nil when it accepts any type.
func (m *Matcher) Type() reflect.Type { return m.typ }

// Quote wraps a lambda that is kept as a tree rather than evaluated: matcher predicates written as
// expressions are quoted so that partial evaluation leaves their captures in place.
type Quote struct {
	Lambda *Lambda
}

// Quoted wraps l.
func Quoted(l *Lambda) *Quote {
	return &Quote{Lambda: l}
}

// Kind returns KindQuote.
func (q *Quote) Kind() Kind { return KindQuote }

// Type returns *Lambda; a quote evaluates to its tree.
func (q *Quote) Type() reflect.Type { return reflect.TypeFor[*Lambda]() }
