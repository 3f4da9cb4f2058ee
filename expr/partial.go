package expr

import (
	"fmt"
	"reflect"
)

// PartialEval replaces every subtree that references no free parameter with a constant holding its
// value, so captured variables and arithmetic over them are read once. Matchers, quoted lambdas and
// anything depending on a parameter are kept as trees; inside a Quote nothing is folded.
func PartialEval(node Node) (Node, error) {
	if err := Err(node); err != nil {
		return nil, err
	}

	return fold(node)
}

func fold(node Node) (Node, error) {
	switch node.(type) {
	case *Constant, *Parameter, *Quote:
		return node, nil
	}

	if foldable(node) {
		val, err := evaluate(node, nil)
		if err != nil {
			return nil, err
		}

		if val.IsValid() && !val.CanInterface() {
			return nil, fmt.Errorf("%w: %s reads an unexported value", ErrEval, node)
		}

		var value any
		if val.IsValid() {
			value = val.Interface()
		}

		return &Constant{Value: value, typ: node.Type()}, nil
	}

	children := Children(node)
	folded := make([]Node, len(children))
	changed := false

	for i, child := range children {
		if child == nil {
			continue
		}

		result, err := fold(child)
		if err != nil {
			return nil, err
		}

		folded[i] = result
		changed = changed || result != child
	}

	if !changed {
		return node, nil
	}

	return Rebuild(node, folded), nil
}

// foldable reports whether node has a value that can be computed now: it is not a lambda, has a
// type, and contains no matcher, quote, assignment or free parameter. Lambdas stay trees so only
// their bodies fold.
func foldable(node Node) bool {
	if _, isLambda := node.(*Lambda); isLambda || node.Type() == nil {
		return false
	}

	ok := true
	bound := map[*Parameter]bool{}

	Inspect(node, func(n Node) bool {
		switch typed := n.(type) {
		case *Matcher, *Quote, *Assignment:
			ok = false
		case *Lambda:
			for _, param := range typed.Params {
				bound[param] = true
			}
		case *Parameter:
			ok = bound[typed]
		}

		return ok
	})

	return ok
}

// ValuesEqual is the equality used for exact argument matching: deep equality, where a nil and an
// empty slice or map are equal and functions are equal when they are the same function value.
func ValuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return isEmptyish(a) && isEmptyish(b)
	}

	aVal, bVal := reflect.ValueOf(a), reflect.ValueOf(b)
	if aVal.Type() != bVal.Type() {
		return false
	}

	switch aVal.Kind() { //nolint:exhaustive // everything else compares deeply
	case reflect.Func:
		return aVal.Pointer() == bVal.Pointer()
	case reflect.Slice, reflect.Map:
		if aVal.Len() == 0 && bVal.Len() == 0 {
			return true
		}
	}

	return reflect.DeepEqual(a, b)
}

func isEmptyish(value any) bool {
	if value == nil {
		return true
	}

	val := reflect.ValueOf(value)

	switch val.Kind() { //nolint:exhaustive // only nillable kinds can equal nil
	case reflect.Slice, reflect.Map:
		return val.Len() == 0
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return val.IsNil()
	default:
		return false
	}
}
