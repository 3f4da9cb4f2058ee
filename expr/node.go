// Package expr models recorded member accesses as a small expression tree: constants, parameters,
// captured variables, method calls, property and indexer accesses, assignments, operators,
// argument-matcher markers and lambdas. Trees can be walked, evaluated, partially evaluated and
// compared structurally.
package expr

import (
	"errors"
	"fmt"
	"reflect"
)

// Exported variables.
var (
	ErrBuild = errors.New("invalid expression")
	ErrEval  = errors.New("cannot evaluate expression")
)

// Kind identifies the shape of a Node.
type Kind int

// Kind values.
const (
	KindConstant Kind = iota
	KindParameter
	KindCapture
	KindField
	KindCall
	KindProperty
	KindIndex
	KindAssign
	KindAddAssign
	KindSubAssign
	KindBinary
	KindUnary
	KindConvert
	KindInvoke
	KindNew
	KindSlice
	KindMatcher
	KindLambda
	KindQuote
)

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is one node of an expression tree.
type Node interface {
	Kind() Kind
	// Type is the static type of the node's value, or nil for statements and void calls.
	Type() reflect.Type
	String() string
}

// Capture reads a variable from the enclosing scope at evaluation time.
type Capture struct {
	Name string
	ptr  reflect.Value
}

// Captured returns a node reading *ptr whenever it is evaluated.
func Captured[T any](name string, ptr *T) *Capture {
	return &Capture{Name: name, ptr: reflect.ValueOf(ptr)}
}

// Kind returns KindCapture.
func (c *Capture) Kind() Kind { return KindCapture }

// String returns the variable name.
func (c *Capture) String() string { return c.Name }

// Type returns the captured variable's type.
func (c *Capture) Type() reflect.Type { return c.ptr.Type().Elem() }

// Value returns the current value of the captured variable.
func (c *Capture) Value() reflect.Value { return c.ptr.Elem() }

// Constant is a literal value.
type Constant struct {
	Value any
	typ   reflect.Type
}

// Const wraps a value as a constant of its dynamic type.
func Const(value any) *Constant {
	return &Constant{Value: value, typ: reflect.TypeOf(value)}
}

// TypedConst wraps a value as a constant of type t, converting literals the way Go converts untyped
// constants. A nil value becomes the zero value of a nillable t.
func TypedConst(value any, t reflect.Type) (*Constant, error) {
	return constantFor(value, t)
}

// Kind returns KindConstant.
func (c *Constant) Kind() Kind { return KindConstant }

// String renders the literal.
func (c *Constant) String() string { return FormatValue(c.Value) }

// Type returns the constant's type, nil for an untyped nil.
func (c *Constant) Type() reflect.Type { return c.typ }

// Parameter is a lambda parameter.
type Parameter struct {
	Name string
	typ  reflect.Type
}

// Param declares a parameter of type t.
func Param(name string, t reflect.Type) *Parameter {
	return &Parameter{Name: name, typ: t}
}

// ParamOf declares a parameter of type T.
func ParamOf[T any](name string) *Parameter {
	return Param(name, reflect.TypeFor[T]())
}

// Kind returns KindParameter.
func (p *Parameter) Kind() Kind { return KindParameter }

// String returns the parameter name.
func (p *Parameter) String() string { return p.Name }

// Type returns the parameter type.
func (p *Parameter) Type() reflect.Type { return p.typ }

// Err returns the first construction error recorded anywhere in the tree.
func Err(node Node) error {
	var found error

	Inspect(node, func(n Node) bool {
		if found != nil {
			return false
		}

		if failing, ok := n.(interface{ buildError() error }); ok {
			found = failing.buildError()
		}

		return found == nil
	})

	return found
}

// Invalid returns a placeholder node carrying a construction error, which Err reports. Builders
// outside this package use it to attach errors to the trees they return.
func Invalid(err error) Node {
	return &invalidNode{err: err}
}

// IsNillable reports whether nil is a valid value of t.
func IsNillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice,
		reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

type invalidNode struct {
	err error
}

func (n *invalidNode) Kind() Kind         { return KindConstant }
func (n *invalidNode) String() string     { return "<invalid: " + n.err.Error() + ">" }
func (n *invalidNode) Type() reflect.Type { return nil }
func (n *invalidNode) buildError() error  { return n.err }

//nolint:gochecknoglobals // lookup table
var kindNames = map[Kind]string{
	KindConstant:  "Constant",
	KindParameter: "Parameter",
	KindCapture:   "Capture",
	KindField:     "Field",
	KindCall:      "Call",
	KindProperty:  "Property",
	KindIndex:     "Index",
	KindAssign:    "Assign",
	KindAddAssign: "AddAssign",
	KindSubAssign: "SubAssign",
	KindBinary:    "Binary",
	KindUnary:     "Unary",
	KindConvert:   "Convert",
	KindInvoke:    "Invoke",
	KindNew:       "New",
	KindSlice:     "Slice",
	KindMatcher:   "Matcher",
	KindLambda:    "Lambda",
	KindQuote:     "Quote",
}

// constantFor converts a raw Go value to a constant of type want. Numeric values convert between
// numeric types when no precision is lost, string or bool values convert to named types of the
// same kind, and assignable values are stored as want itself (a []int given for a named slice
// type holds the named type).
func constantFor(value any, want reflect.Type) (*Constant, error) {
	if want == nil {
		return Const(value), nil
	}

	if value == nil {
		if !IsNillable(want) {
			return nil, fmt.Errorf("%w: nil is not a valid %s", ErrBuild, TypeName(want))
		}

		return &Constant{typ: want}, nil
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(want) {
		if want.Kind() != reflect.Interface && val.Type() != want {
			value = val.Convert(want).Interface()
		}

		return &Constant{Value: value, typ: want}, nil
	}

	if !sameClass(val.Kind(), want.Kind()) || !val.CanConvert(want) {
		return nil, fmt.Errorf("%w: %s is not assignable to %s", ErrBuild, FormatValue(value), TypeName(want))
	}

	converted := val.Convert(want)
	if isNumeric(val.Kind()) && !converted.Convert(val.Type()).Equal(val) {
		return nil, fmt.Errorf("%w: %s overflows or truncates as %s", ErrBuild, FormatValue(value), TypeName(want))
	}

	return &Constant{Value: converted.Interface(), typ: want}, nil
}

func isNumeric(kind reflect.Kind) bool {
	return kind >= reflect.Int && kind <= reflect.Complex128
}

func sameClass(a, b reflect.Kind) bool {
	switch {
	case isNumeric(a):
		return isNumeric(b)
	case a == reflect.String, a == reflect.Bool:
		return a == b
	default:
		return false
	}
}

// toNode turns a builder argument into a node of type want. Nodes pass through when assignable,
// constants are re-typed, and raw values become constants. Matchers are accepted as-is; their
// compatibility is checked when they are extracted.
func toNode(value any, want reflect.Type) (Node, error) {
	node, isNode := value.(Node)
	if !isNode {
		return constantFor(value, want)
	}

	if want == nil {
		return node, nil
	}

	switch typed := node.(type) {
	case *Matcher:
		return typed, nil
	case *Constant:
		return constantFor(typed.Value, want)
	}

	if node.Type() == nil {
		return node, fmt.Errorf("%w: %s has no value", ErrBuild, node)
	}

	if !node.Type().AssignableTo(want) {
		return node, fmt.Errorf("%w: %s (%s) is not assignable to %s", ErrBuild, node, TypeName(node.Type()),
			TypeName(want))
	}

	return node, nil
}

// toNodes converts call arguments against a parameter list, packing trailing arguments of a
// variadic parameter into a slice literal.
func toNodes(args []any, params []reflect.Type, variadic bool) ([]Node, error) {
	fixed := len(params)
	if variadic {
		fixed--
	}

	if len(args) < fixed || (!variadic && len(args) != fixed) {
		return nil, fmt.Errorf("%w: want %d arguments, got %d", ErrBuild, fixed, len(args))
	}

	nodes := make([]Node, 0, len(params))

	for i := range fixed {
		node, err := toNode(args[i], params[i])
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, node)
	}

	if !variadic {
		return nodes, nil
	}

	rest := args[fixed:]
	sliceType := params[fixed]

	if len(rest) == 1 && passesAsSlice(rest[0], sliceType) {
		node, err := toNode(rest[0], sliceType)
		if err != nil {
			return nil, err
		}

		return append(nodes, node), nil
	}

	packed := SliceOf(sliceType.Elem(), rest...)
	if packed.err != nil {
		return nil, packed.err
	}

	return append(nodes, packed), nil
}

func passesAsSlice(arg any, sliceType reflect.Type) bool {
	if arg == nil {
		return true
	}

	if node, ok := arg.(Node); ok {
		if matcher, isMatcher := node.(*Matcher); isMatcher {
			return matcher.Type() != nil && matcher.Type().Kind() == reflect.Slice
		}

		return node.Type() != nil && node.Type().AssignableTo(sliceType)
	}

	return reflect.TypeOf(arg).AssignableTo(sliceType)
}
