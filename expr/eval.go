package expr

import (
	"fmt"
	"reflect"
)

// Compile evaluates a lambda to a callable function value of its Type. Evaluation failures inside
// the function panic with an error wrapping ErrEval.
func Compile(l *Lambda) (reflect.Value, error) {
	if err := Err(l); err != nil {
		return reflect.Value{}, err
	}

	return evaluate(l, nil)
}

// Eval evaluates a closed tree (one with no free parameters) and returns its value. Void calls
// evaluate to nil.
func Eval(node Node) (any, error) {
	if err := Err(node); err != nil {
		return nil, err
	}

	val, err := evaluate(node, nil)
	if err != nil {
		return nil, err
	}

	if !val.IsValid() {
		return nil, nil
	}

	return val.Interface(), nil
}

// env binds parameters to values; lambdas extend it when called.
type env map[*Parameter]reflect.Value

// coerce makes val usable where a value of type t is expected. An invalid value becomes the zero
// value of t.
func coerce(val reflect.Value, t reflect.Type) (reflect.Value, error) {
	if !val.IsValid() {
		return reflect.Zero(t), nil
	}

	if val.Type().AssignableTo(t) {
		return val, nil
	}

	if sameClass(val.Kind(), t.Kind()) && val.CanConvert(t) {
		return val.Convert(t), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s", ErrEval, TypeName(val.Type()), TypeName(t))
}

func evalArgs(args []Node, scope env) ([]reflect.Value, error) {
	values := make([]reflect.Value, len(args))

	for i, arg := range args {
		val, err := evaluate(arg, scope)
		if err != nil {
			return nil, err
		}

		values[i] = val
	}

	return values, nil
}

func evalAssignment(node *Assignment, scope env) (reflect.Value, error) {
	field, ok := node.Target.(*FieldAccess)
	if !ok || node.Op != OpAssign {
		return reflect.Value{}, fmt.Errorf("%w: %s writes to a member", ErrEval, node)
	}

	obj, err := evaluate(field.Object, scope)
	if err != nil {
		return reflect.Value{}, err
	}

	if obj.Kind() != reflect.Pointer || obj.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: %s is not addressable", ErrEval, field)
	}

	val, err := evaluate(node.Value, scope)
	if err != nil {
		return reflect.Value{}, err
	}

	target := obj.Elem().FieldByIndex(field.field.Index)

	val, err = coerce(val, target.Type())
	if err != nil {
		return reflect.Value{}, err
	}

	target.Set(val)

	return reflect.Value{}, nil
}

func evalBinary(node *Binary, scope env) (reflect.Value, error) {
	x, err := evaluate(node.X, scope)
	if err != nil {
		return reflect.Value{}, err
	}

	// logical operators short-circuit
	if node.Op == OpAnd && !x.Bool() {
		return reflect.ValueOf(false), nil
	}

	if node.Op == OpOr && x.Bool() {
		return reflect.ValueOf(true), nil
	}

	y, err := evaluate(node.Y, scope)
	if err != nil {
		return reflect.Value{}, err
	}

	if y, err = coerce(y, x.Type()); err != nil {
		return reflect.Value{}, err
	}

	return applyBinary(node.Op, x, y)
}

func evalCall(fn reflect.Value, args []Node, scope env) (reflect.Value, error) {
	if !fn.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: no such method", ErrEval)
	}

	values, err := evalArgs(args, scope)
	if err != nil {
		return reflect.Value{}, err
	}

	fnType := fn.Type()
	for i := range values {
		paramType := fnType.In(min(i, fnType.NumIn()-1))

		if values[i], err = coerce(values[i], paramType); err != nil {
			return reflect.Value{}, err
		}
	}

	var results []reflect.Value
	if fnType.IsVariadic() {
		results = fn.CallSlice(values)
	} else {
		results = fn.Call(values)
	}

	switch len(results) {
	case 0:
		return reflect.Value{}, nil
	case 1:
		return results[0], nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: multiple results in a single-value context", ErrEval)
	}
}

func evalComposite(node *Composite, scope env) (reflect.Value, error) {
	structType := derefType(node.typ)
	ptr := reflect.New(structType)

	for _, binding := range node.Fields {
		val, err := evaluate(binding.Value, scope)
		if err != nil {
			return reflect.Value{}, err
		}

		field := ptr.Elem().FieldByName(binding.Name)

		if val, err = coerce(val, field.Type()); err != nil {
			return reflect.Value{}, err
		}

		field.Set(val)
	}

	if node.typ.Kind() == reflect.Pointer {
		return ptr, nil
	}

	return ptr.Elem(), nil
}

func evalIndex(node *IndexAccess, scope env) (reflect.Value, error) {
	obj, err := evaluate(node.Object, scope)
	if err != nil {
		return reflect.Value{}, err
	}

	if node.Indexer != nil {
		return evalCall(methodValue(obj, node.Indexer.Getter.Name), node.Keys, scope)
	}

	key, err := evaluate(node.Keys[0], scope)
	if err != nil {
		return reflect.Value{}, err
	}

	if obj.Kind() == reflect.Map {
		found := obj.MapIndex(key)
		if !found.IsValid() {
			return reflect.Zero(obj.Type().Elem()), nil
		}

		return found, nil
	}

	index := int(key.Int())
	if index < 0 || index >= obj.Len() {
		return reflect.Value{}, fmt.Errorf("%w: index %d out of range [0:%d]", ErrEval, index, obj.Len())
	}

	return obj.Index(index), nil
}

func evalLambda(node *Lambda, scope env) reflect.Value {
	return reflect.MakeFunc(node.Type(), func(args []reflect.Value) []reflect.Value {
		inner := make(env, len(scope)+len(args))
		for param, val := range scope {
			inner[param] = val
		}

		for i, param := range node.Params {
			inner[param] = args[i]
		}

		result, err := evaluate(node.Body, inner)
		if err != nil {
			panic(err)
		}

		if node.Body.Type() == nil {
			return nil
		}

		result, err = coerce(result, node.Body.Type())
		if err != nil {
			panic(err)
		}

		return []reflect.Value{result}
	})
}

func evalSlice(node *SliceLiteral, scope env) (reflect.Value, error) {
	slice := reflect.MakeSlice(node.typ, len(node.Elems), len(node.Elems))

	for i, elem := range node.Elems {
		val, err := evaluate(elem, scope)
		if err != nil {
			return reflect.Value{}, err
		}

		if val, err = coerce(val, node.typ.Elem()); err != nil {
			return reflect.Value{}, err
		}

		slice.Index(i).Set(val)
	}

	return slice, nil
}

func evalUnary(node *Unary, scope env) (reflect.Value, error) {
	x, err := evaluate(node.X, scope)
	if err != nil {
		return reflect.Value{}, err
	}

	if node.Op == OpNot {
		return reflect.ValueOf(!x.Bool()), nil
	}

	return applyBinary(OpSub, reflect.Zero(x.Type()), x)
}

func evaluate(node Node, scope env) (reflect.Value, error) {
	switch typed := node.(type) {
	case *Constant:
		if typed.Value == nil {
			if typed.typ == nil {
				return reflect.Value{}, nil
			}

			return reflect.Zero(typed.typ), nil
		}

		return reflect.ValueOf(typed.Value), nil
	case *Parameter:
		val, ok := scope[typed]
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: parameter %s is not bound", ErrEval, typed.Name)
		}

		return val, nil
	case *Capture:
		return typed.Value(), nil
	case *FieldAccess:
		obj, err := evaluate(typed.Object, scope)
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.Indirect(obj).FieldByIndex(typed.field.Index), nil
	case *MethodCall:
		obj, err := evaluate(typed.Object, scope)
		if err != nil {
			return reflect.Value{}, err
		}

		return evalCall(methodValue(obj, typed.Method.Name), typed.Args, scope)
	case *PropertyAccess:
		if typed.Property == nil || typed.Property.Getter == nil {
			return reflect.Value{}, fmt.Errorf("%w: %s is not readable", ErrEval, typed)
		}

		obj, err := evaluate(typed.Object, scope)
		if err != nil {
			return reflect.Value{}, err
		}

		return evalCall(methodValue(obj, typed.Property.Getter.Name), nil, scope)
	case *IndexAccess:
		return evalIndex(typed, scope)
	case *Assignment:
		return evalAssignment(typed, scope)
	case *Binary:
		return evalBinary(typed, scope)
	case *Unary:
		return evalUnary(typed, scope)
	case *Conversion:
		x, err := evaluate(typed.X, scope)
		if err != nil {
			return reflect.Value{}, err
		}

		if !x.IsValid() || !x.CanConvert(typed.To) {
			return reflect.Value{}, fmt.Errorf("%w: cannot convert %s to %s", ErrEval, typed.X, TypeName(typed.To))
		}

		return x.Convert(typed.To), nil
	case *FuncCall:
		return evalCall(typed.Fn, typed.Args, scope)
	case *Composite:
		return evalComposite(typed, scope)
	case *SliceLiteral:
		return evalSlice(typed, scope)
	case *Lambda:
		return evalLambda(typed, scope), nil
	case *Quote:
		return reflect.ValueOf(typed.Lambda), nil
	case *Matcher:
		return reflect.Value{}, fmt.Errorf("%w: matcher %s only has meaning as a call argument", ErrEval, typed)
	default:
		return reflect.Value{}, fmt.Errorf("%w: unknown node %T", ErrEval, node)
	}
}

func methodValue(obj reflect.Value, name string) reflect.Value {
	if !obj.IsValid() || (IsNillable(obj.Type()) && obj.Kind() == reflect.Interface && obj.IsNil()) {
		return reflect.Value{}
	}

	method := obj.MethodByName(name)
	if !method.IsValid() && obj.Kind() != reflect.Pointer && obj.CanAddr() {
		method = obj.Addr().MethodByName(name)
	}

	return method
}
