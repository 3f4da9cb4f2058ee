// Package match provides argument matchers for impmock setups and verifications. A matcher stands
// in for an argument value and accepts every value satisfying its predicate:
//
//	mock.Setup(func(x *expr.Parameter) expr.Node {
//	    return x.Call("Add", match.Any[int](), match.InRange(1, 10, match.Inclusive))
//	}).Returns(42)
//
// gomega matchers plug in through That:
//
//	x.Call("Greet", match.That[string](HavePrefix("Dr. ")))
package match

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"regexp"

	"github.com/toejough/impmock/expr"
)

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// Range says whether InRange includes its bounds.
type Range int

// Range values.
const (
	Inclusive Range = iota
	Exclusive
)

// String returns the range name.
func (r Range) String() string {
	if r == Exclusive {
		return "Exclusive"
	}

	return "Inclusive"
}

// BeAny matches any value of any type.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny = expr.NewMatcher("match.BeAny", nil, func(any) bool { return true })

// Any matches any value of type T, including nil for nillable T.
func Any[T any]() *expr.Matcher {
	return expr.NewMatcher(name[T]("Any"), reflect.TypeFor[T](), func(value any) bool {
		_, ok := typed[T](value)

		return ok
	})
}

// In matches values equal to one of values.
func In[T comparable](values ...T) *expr.Matcher {
	return expr.NewMatcher(name[T]("In"), reflect.TypeFor[T](), func(value any) bool {
		actual, ok := typed[T](value)

		return ok && contains(values, actual)
	}, listArg(values))
}

// InRange matches values between from and to.
func InRange[T cmp.Ordered](from, to T, bounds Range) *expr.Matcher {
	return expr.NewMatcher(name[T]("InRange"), reflect.TypeFor[T](), func(value any) bool {
		actual, ok := typed[T](value)
		if !ok {
			return false
		}

		if bounds == Exclusive {
			return cmp.Less(from, actual) && cmp.Less(actual, to)
		}

		return cmp.Compare(from, actual) <= 0 && cmp.Compare(actual, to) <= 0
	}, expr.Const(from), expr.Const(to), expr.Const(bounds))
}

// Is matches values for which predicate returns true. The predicate is opaque: two Is matchers
// are only the same matcher when they are the same value.
func Is[T any](predicate func(T) bool) *expr.Matcher {
	return expr.NewOpaqueMatcher(name[T]("Is"), reflect.TypeFor[T](), func(value any) bool {
		actual, ok := typed[T](value)

		return ok && predicate(actual)
	})
}

// Nil matches nil values of a nillable type T.
func Nil[T any]() *expr.Matcher {
	return expr.NewMatcher(name[T]("Nil"), reflect.TypeFor[T](), isNil)
}

// NotIn matches values of type T equal to none of values.
func NotIn[T comparable](values ...T) *expr.Matcher {
	return expr.NewMatcher(name[T]("NotIn"), reflect.TypeFor[T](), func(value any) bool {
		actual, ok := typed[T](value)

		return ok && !contains(values, actual)
	}, listArg(values))
}

// NotNil matches non-nil values of type T.
func NotNil[T any]() *expr.Matcher {
	return expr.NewMatcher(name[T]("NotNil"), reflect.TypeFor[T](), func(value any) bool {
		_, ok := typed[T](value)

		return ok && !isNil(value)
	})
}

// Regex matches strings containing a match of pattern. It panics if pattern does not compile.
func Regex(pattern string) *expr.Matcher {
	compiled := regexp.MustCompile(pattern)

	return expr.NewMatcher("match.Regex", reflect.TypeFor[string](), func(value any) bool {
		actual, ok := value.(string)

		return ok && compiled.MatchString(actual)
	}, expr.Const(pattern))
}

// Satisfy returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	x.Call("Add", match.Satisfy(func(x int) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	}), 1)
func Satisfy[T any](predicate func(T) error) *expr.Matcher {
	return expr.NewOpaqueMatcher(name[T]("Satisfy"), reflect.TypeFor[T](), func(value any) bool {
		actual, ok := typed[T](value)

		return ok && predicate(actual) == nil
	})
}

// That adapts a gomega-style matcher to an argument of type T. A matcher error counts as a
// mismatch.
func That[T any](matcher Matcher) *expr.Matcher {
	return expr.NewOpaqueMatcher(name[T]("That"), reflect.TypeFor[T](), func(value any) bool {
		if _, ok := typed[T](value); !ok {
			return false
		}

		success, err := matcher.Match(value)

		return err == nil && success
	})
}

// Where matches values for which the expression built over x is true. The expression is kept as a
// tree, so two Where matchers with the same expression are the same matcher.
func Where[T any](build func(x *expr.Parameter) expr.Node) *expr.Matcher {
	lambda := expr.Fn(reflect.TypeFor[T](), build)
	predicate := func(any) bool { return false }

	compiled, err := expr.Compile(lambda)
	if err == nil && lambda.Body.Type() != reflect.TypeFor[bool]() {
		err = fmt.Errorf("%w: %s: %s", errNotPredicate, lambda, expr.TypeName(lambda.Body.Type()))
	}

	matcher := expr.NewMatcher(name[T]("Where"), reflect.TypeFor[T](), predicate, expr.Quoted(lambda))
	if err != nil {
		matcher.Args = append(matcher.Args, expr.Invalid(err))

		return matcher
	}

	matcher.Predicate = func(value any) bool {
		actual, ok := typed[T](value)
		if !ok {
			return false
		}

		arg := reflect.ValueOf(&actual).Elem()

		return compiled.Call([]reflect.Value{arg})[0].Bool()
	}

	return matcher
}

// unexported variables.
var (
	errNotPredicate = errors.New("predicate expression must be bool")
)

func contains[T comparable](values []T, actual T) bool {
	for _, value := range values {
		if value == actual {
			return true
		}
	}

	return false
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	val := reflect.ValueOf(value)

	return expr.IsNillable(val.Type()) && val.IsNil()
}

func listArg[T any](values []T) expr.Node {
	elems := make([]any, len(values))
	for i, value := range values {
		elems[i] = value
	}

	return expr.SliceOf(reflect.TypeFor[T](), elems...)
}

func name[T any](matcher string) string {
	return "match." + matcher + "[" + expr.TypeName(reflect.TypeFor[T]()) + "]"
}

// typed converts an argument to T. A nil argument converts to the zero T when T is nillable.
func typed[T any](value any) (T, bool) {
	if value == nil {
		var zero T

		return zero, expr.IsNillable(reflect.TypeFor[T]())
	}

	actual, ok := value.(T)

	return actual, ok
}
