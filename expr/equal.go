package expr

import (
	"reflect"
	"slices"
)

// Equal reports whether two trees have the same shape: same node kinds and types, same members,
// same constant values, and lambda parameters that correspond by position. Captured variables
// compare by their current values, except inside a Quote, where they are equal only when they are
// the same variable. Opaque matchers are equal only when they are the same matcher.
func Equal(a, b Node) bool {
	return (&comparer{params: map[*Parameter]*Parameter{}}).equal(a, b)
}

type comparer struct {
	params map[*Parameter]*Parameter
	quotes int
}

//nolint:cyclop,funlen // one case per node kind
func (c *comparer) equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) || a.Kind() != b.Kind() || a.Type() != b.Type() {
		return false
	}

	switch left := a.(type) {
	case *Constant:
		right, _ := b.(*Constant)

		return ValuesEqual(left.Value, right.Value)
	case *Parameter:
		right, _ := b.(*Parameter)
		if mapped, ok := c.params[left]; ok {
			return mapped == right
		}

		return left == right
	case *Capture:
		right, _ := b.(*Capture)
		if c.quotes > 0 {
			return left.ptr.Pointer() == right.ptr.Pointer()
		}

		return ValuesEqual(left.Value().Interface(), right.Value().Interface())
	case *FieldAccess:
		right, _ := b.(*FieldAccess)

		return slices.Equal(left.field.Index, right.field.Index) && c.children(a, b)
	case *MethodCall:
		right, _ := b.(*MethodCall)

		return left.Method.Same(right.Method) && c.children(a, b)
	case *PropertyAccess:
		right, _ := b.(*PropertyAccess)

		return left.Name == right.Name && c.children(a, b)
	case *IndexAccess:
		right, _ := b.(*IndexAccess)

		return left.Name == right.Name && c.children(a, b)
	case *Assignment:
		right, _ := b.(*Assignment)

		return left.Op == right.Op && c.children(a, b)
	case *Binary:
		right, _ := b.(*Binary)

		return left.Op == right.Op && c.children(a, b)
	case *Unary:
		right, _ := b.(*Unary)

		return left.Op == right.Op && c.children(a, b)
	case *FuncCall:
		right, _ := b.(*FuncCall)

		return left.Name == right.Name && ValuesEqual(left.Fn.Interface(), right.Fn.Interface()) &&
			c.children(a, b)
	case *Composite:
		right, _ := b.(*Composite)

		return bindingNamesEqual(left.Fields, right.Fields) && c.children(a, b)
	case *Matcher:
		right, _ := b.(*Matcher)
		if left.Opaque || right.Opaque {
			return left == right
		}

		return left.Name == right.Name && c.children(a, b)
	case *Lambda:
		right, _ := b.(*Lambda)

		return c.lambdas(left, right)
	case *Quote:
		c.quotes++
		defer func() { c.quotes-- }()

		return c.children(a, b)
	default:
		// conversions and slices are fully described by their type and children
		return c.children(a, b)
	}
}

func (c *comparer) children(a, b Node) bool {
	left, right := Children(a), Children(b)
	if len(left) != len(right) {
		return false
	}

	for i := range left {
		if !c.equal(left[i], right[i]) {
			return false
		}
	}

	return true
}

func (c *comparer) lambdas(left, right *Lambda) bool {
	if len(left.Params) != len(right.Params) {
		return false
	}

	for i := range left.Params {
		if left.Params[i].Type() != right.Params[i].Type() {
			return false
		}

		c.params[left.Params[i]] = right.Params[i]
	}

	return c.equal(left.Body, right.Body)
}

func bindingNamesEqual(left, right []Binding) bool {
	if len(left) != len(right) {
		return false
	}

	for i := range left {
		if left[i].Name != right[i].Name {
			return false
		}
	}

	return true
}
