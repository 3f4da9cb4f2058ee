package expr

import (
	"fmt"
	"reflect"
)

// Op is a unary or binary operator.
type Op int

// Op values.
const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpNeg
	OpNot
)

// String returns the operator symbol.
func (op Op) String() string {
	if symbol, ok := opSymbols[op]; ok {
		return symbol
	}

	return fmt.Sprintf("Op(%d)", int(op))
}

// Binary applies an arithmetic, comparison or logical operator.
type Binary struct {
	Op   Op
	X, Y Node
	typ  reflect.Type
	err  error
}

// Add builds x + y.
func Add(x, y any) *Binary { return binary(OpAdd, x, y) }

// And builds x && y.
func And(x, y any) *Binary { return binary(OpAnd, x, y) }

// Div builds x / y.
func Div(x, y any) *Binary { return binary(OpDiv, x, y) }

// Eq builds x == y.
func Eq(x, y any) *Binary { return binary(OpEq, x, y) }

// Ge builds x >= y.
func Ge(x, y any) *Binary { return binary(OpGe, x, y) }

// Gt builds x > y.
func Gt(x, y any) *Binary { return binary(OpGt, x, y) }

// Le builds x <= y.
func Le(x, y any) *Binary { return binary(OpLe, x, y) }

// Lt builds x < y.
func Lt(x, y any) *Binary { return binary(OpLt, x, y) }

// Mul builds x * y.
func Mul(x, y any) *Binary { return binary(OpMul, x, y) }

// Ne builds x != y.
func Ne(x, y any) *Binary { return binary(OpNe, x, y) }

// Or builds x || y.
func Or(x, y any) *Binary { return binary(OpOr, x, y) }

// Rem builds x % y.
func Rem(x, y any) *Binary { return binary(OpRem, x, y) }

// Sub builds x - y.
func Sub(x, y any) *Binary { return binary(OpSub, x, y) }

// Kind returns KindBinary.
func (b *Binary) Kind() Kind { return KindBinary }

// Type returns bool for comparisons and logical operators, and the operand type otherwise.
func (b *Binary) Type() reflect.Type { return b.typ }

func (b *Binary) buildError() error { return b.err }

// Composite builds a struct value from field bindings.
type Composite struct {
	Fields []Binding
	typ    reflect.Type
	err    error
}

// Binding assigns a value to a named struct field in a Composite.
type Binding struct {
	Name  string
	Value Node
	raw   any
}

// Bind names a struct field value for New.
func Bind(name string, value any) Binding {
	return Binding{Name: name, raw: value}
}

// New builds T{Name: value, ...} for a struct type t, or &T{...} for a pointer-to-struct t.
func New(t reflect.Type, bindings ...Binding) *Composite {
	composite := &Composite{typ: t}

	structType := derefType(t)
	if structType.Kind() != reflect.Struct {
		composite.err = fmt.Errorf("%w: %s is not a struct type", ErrBuild, TypeName(t))

		return composite
	}

	for _, binding := range bindings {
		field, ok := structType.FieldByName(binding.Name)
		if !ok {
			composite.err = fmt.Errorf("%w: %s has no field %s", ErrBuild, TypeName(structType), binding.Name)

			return composite
		}

		value := binding.Value
		if value == nil {
			node, err := toNode(binding.raw, field.Type)
			if err != nil {
				composite.err = err

				return composite
			}

			value = node
		}

		composite.Fields = append(composite.Fields, Binding{Name: binding.Name, Value: value})
	}

	return composite
}

// Kind returns KindNew.
func (c *Composite) Kind() Kind { return KindNew }

// Type returns the constructed type.
func (c *Composite) Type() reflect.Type { return c.typ }

func (c *Composite) buildError() error { return c.err }

// Conversion converts X to type To.
type Conversion struct {
	X   Node
	To  reflect.Type
	err error
}

// Convert builds T(x).
func Convert(x any, to reflect.Type) *Conversion {
	node, err := toNode(x, nil)
	conversion := &Conversion{X: node, To: to, err: err}

	if err == nil && (node.Type() == nil || !node.Type().ConvertibleTo(to)) {
		conversion.err = fmt.Errorf("%w: cannot convert %s to %s", ErrBuild, node, TypeName(to))
	}

	return conversion
}

// Kind returns KindConvert.
func (c *Conversion) Kind() Kind { return KindConvert }

// Type returns the target type.
func (c *Conversion) Type() reflect.Type { return c.To }

func (c *Conversion) buildError() error { return c.err }

// FuncCall invokes a function value that is not a member of the mocked type.
type FuncCall struct {
	Name string
	Fn   reflect.Value
	Args []Node
	err  error
}

// Invoke builds name(args...) calling fn, which must be a function.
func Invoke(name string, fn any, args ...any) *FuncCall {
	call := &FuncCall{Name: name, Fn: reflect.ValueOf(fn)}
	if call.Fn.Kind() != reflect.Func || call.Fn.IsNil() {
		call.err = fmt.Errorf("%w: %s is not a function", ErrBuild, name)

		return call
	}

	fnType := call.Fn.Type()

	params := make([]reflect.Type, fnType.NumIn())
	for i := range params {
		params[i] = fnType.In(i)
	}

	call.Args, call.err = toNodes(args, params, fnType.IsVariadic())

	return call
}

// Kind returns KindInvoke.
func (f *FuncCall) Kind() Kind { return KindInvoke }

// Type returns the single result type, or nil.
func (f *FuncCall) Type() reflect.Type {
	if f.err != nil || f.Fn.Type().NumOut() != 1 {
		return nil
	}

	return f.Fn.Type().Out(0)
}

func (f *FuncCall) buildError() error { return f.err }

// SliceLiteral builds a slice from element nodes.
type SliceLiteral struct {
	Elems []Node
	typ   reflect.Type
	err   error
}

// SliceOf builds []elem{values...}. Values may be nodes, matchers or raw Go values.
func SliceOf(elem reflect.Type, values ...any) *SliceLiteral {
	literal := &SliceLiteral{typ: reflect.SliceOf(elem)}

	for _, value := range values {
		node, err := toNode(value, elem)
		if err != nil {
			literal.err = err

			return literal
		}

		literal.Elems = append(literal.Elems, node)
	}

	return literal
}

// Kind returns KindSlice.
func (s *SliceLiteral) Kind() Kind { return KindSlice }

// Type returns the slice type.
func (s *SliceLiteral) Type() reflect.Type { return s.typ }

func (s *SliceLiteral) buildError() error { return s.err }

// Unary applies negation or logical not.
type Unary struct {
	Op  Op
	X   Node
	err error
}

// Neg builds -x.
func Neg(x any) *Unary {
	node, err := toNode(x, nil)
	unary := &Unary{Op: OpNeg, X: node, err: err}

	if err == nil && (node.Type() == nil || !isNumeric(node.Type().Kind())) {
		unary.err = fmt.Errorf("%w: cannot negate %s", ErrBuild, node)
	}

	return unary
}

// Not builds !x.
func Not(x any) *Unary {
	node, err := toNode(x, reflect.TypeFor[bool]())

	return &Unary{Op: OpNot, X: node, err: err}
}

// Kind returns KindUnary.
func (u *Unary) Kind() Kind { return KindUnary }

// Type returns bool for !, and the operand type for -.
func (u *Unary) Type() reflect.Type {
	if u.Op == OpNot {
		return reflect.TypeFor[bool]()
	}

	if u.X == nil {
		return nil
	}

	return u.X.Type()
}

func (u *Unary) buildError() error { return u.err }

//nolint:gochecknoglobals // lookup table
var opSymbols = map[Op]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpRem: "%",
	OpEq:  "==",
	OpNe:  "!=",
	OpLt:  "<",
	OpLe:  "<=",
	OpGt:  ">",
	OpGe:  ">=",
	OpAnd: "&&",
	OpOr:  "||",
	OpNeg: "-",
	OpNot: "!",
}

// binary types the operands against each other: a raw value on one side takes the type of the
// node on the other.
func binary(op Op, x, y any) *Binary {
	node := &Binary{Op: op}

	var err error

	_, xIsNode := x.(Node)
	_, yIsNode := y.(Node)

	switch {
	case xIsNode:
		node.X, err = toNode(x, nil)
		if err == nil {
			node.Y, err = toNode(y, node.X.Type())
		}
	case yIsNode:
		node.Y, err = toNode(y, nil)
		if err == nil {
			node.X, err = toNode(x, node.Y.Type())
		}
	default:
		node.X, node.Y = Const(x), Const(y)
		if node.X.Type() != node.Y.Type() {
			err = fmt.Errorf("%w: mismatched operand types %s and %s", ErrBuild,
				TypeName(node.X.Type()), TypeName(node.Y.Type()))
		}
	}

	if node.X == nil {
		node.X = Const(x)
	}

	if node.Y == nil {
		node.Y = Const(y)
	}

	node.err = err

	switch op { //nolint:exhaustive // the remaining operators keep the operand type
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe, OpAnd, OpOr:
		node.typ = reflect.TypeFor[bool]()
	default:
		node.typ = node.X.Type()
	}

	return node
}
