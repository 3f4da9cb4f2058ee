package expr

import (
	"fmt"
	"reflect"
)

// applyBinary evaluates x op y for operands of the same type.
func applyBinary(op Op, x, y reflect.Value) (reflect.Value, error) {
	switch op { //nolint:exhaustive // unary operators never reach here
	case OpAnd:
		return reflect.ValueOf(x.Bool() && y.Bool()), nil
	case OpOr:
		return reflect.ValueOf(x.Bool() || y.Bool()), nil
	case OpEq:
		return reflect.ValueOf(x.Equal(y)), nil
	case OpNe:
		return reflect.ValueOf(!x.Equal(y)), nil
	case OpLt, OpLe, OpGt, OpGe:
		cmp, err := compare(x, y)
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(orderHolds(op, cmp)), nil
	default:
		return arithmetic(op, x, y)
	}
}

func arithmetic(op Op, x, y reflect.Value) (reflect.Value, error) {
	result := reflect.New(x.Type()).Elem()

	switch {
	case x.CanInt():
		a, b := x.Int(), y.Int()
		if (op == OpDiv || op == OpRem) && b == 0 {
			return reflect.Value{}, fmt.Errorf("%w: integer division by zero", ErrEval)
		}

		result.SetInt(intOp(op, a, b))
	case x.CanUint():
		a, b := x.Uint(), y.Uint()
		if (op == OpDiv || op == OpRem) && b == 0 {
			return reflect.Value{}, fmt.Errorf("%w: integer division by zero", ErrEval)
		}

		result.SetUint(uintOp(op, a, b))
	case x.CanFloat() && op != OpRem:
		result.SetFloat(floatOp(op, x.Float(), y.Float()))
	case x.Kind() == reflect.String && op == OpAdd:
		result.SetString(x.String() + y.String())
	default:
		return reflect.Value{}, fmt.Errorf("%w: operator %s is not defined on %s", ErrEval, op, TypeName(x.Type()))
	}

	return result, nil
}

func compare(x, y reflect.Value) (int, error) {
	switch {
	case x.CanInt():
		return compareOrdered(x.Int(), y.Int()), nil
	case x.CanUint():
		return compareOrdered(x.Uint(), y.Uint()), nil
	case x.CanFloat():
		return compareOrdered(x.Float(), y.Float()), nil
	case x.Kind() == reflect.String:
		return compareOrdered(x.String(), y.String()), nil
	default:
		return 0, fmt.Errorf("%w: %s is not ordered", ErrEval, TypeName(x.Type()))
	}
}

func compareOrdered[T int64 | uint64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func floatOp(op Op, a, b float64) float64 {
	switch op { //nolint:exhaustive // callers pass arithmetic operators only
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	default:
		return a + b
	}
}

func intOp(op Op, a, b int64) int64 {
	switch op { //nolint:exhaustive // callers pass arithmetic operators only
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	case OpRem:
		return a % b
	default:
		return a + b
	}
}

func orderHolds(op Op, cmp int) bool {
	switch op { //nolint:exhaustive // callers pass ordering operators only
	case OpLt:
		return cmp < 0
	case OpLe:
		return cmp <= 0
	case OpGt:
		return cmp > 0
	default:
		return cmp >= 0
	}
}

func uintOp(op Op, a, b uint64) uint64 {
	switch op { //nolint:exhaustive // callers pass arithmetic operators only
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	case OpRem:
		return a % b
	default:
		return a + b
	}
}
