package core

import (
	"reflect"
	"strings"

	"github.com/toejough/impmock/expr"
)

// ArgumentMatcher decides whether one argument of an invocation satisfies an expectation.
type ArgumentMatcher interface {
	// Exact reports whether the matcher accepts only one value.
	Exact() bool
	Matches(argument any, parameterType reflect.Type) bool
	String() string
}

// constantMatcher matches arguments equal to a value folded out of the setup expression.
type constantMatcher struct {
	value any
}

func (m constantMatcher) Exact() bool { return true }

func (m constantMatcher) Matches(argument any, _ reflect.Type) bool {
	return expr.ValuesEqual(argument, m.value)
}

func (m constantMatcher) String() string {
	return expr.FormatValue(m.value)
}

// patternMatcher matches arguments accepted by a matcher marker.
type patternMatcher struct {
	marker *expr.Matcher
}

func (m patternMatcher) Exact() bool { return false }

func (m patternMatcher) Matches(argument any, _ reflect.Type) bool {
	if argument != nil && m.marker.Type() != nil && !reflect.TypeOf(argument).AssignableTo(m.marker.Type()) {
		return false
	}

	return m.marker.Matches(argument)
}

func (m patternMatcher) String() string {
	return m.marker.String()
}

// variadicMatcher matches the slice of a variadic parameter element by element.
type variadicMatcher struct {
	elems []ArgumentMatcher
}

func (m variadicMatcher) Exact() bool {
	for _, elem := range m.elems {
		if !elem.Exact() {
			return false
		}
	}

	return true
}

func (m variadicMatcher) Matches(argument any, parameterType reflect.Type) bool {
	if argument == nil {
		return len(m.elems) == 0
	}

	val := reflect.ValueOf(argument)
	if val.Kind() != reflect.Slice || val.Len() != len(m.elems) {
		return false
	}

	for i, elem := range m.elems {
		if !elem.Matches(val.Index(i).Interface(), parameterType.Elem()) {
			return false
		}
	}

	return true
}

func (m variadicMatcher) String() string {
	parts := make([]string, len(m.elems))
	for i, elem := range m.elems {
		parts[i] = elem.String()
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// matchersFor extracts one matcher per argument of a folded call. source is the setup expression
// text used in errors.
func matchersFor(method *expr.Method, args []expr.Node, source string) ([]ArgumentMatcher, error) {
	matchers := make([]ArgumentMatcher, len(args))

	for i, arg := range args {
		paramType := method.Params[i]
		variadic := method.Variadic && i == len(method.Params)-1

		matcher, err := matcherFor(arg, paramType, variadic, source)
		if err != nil {
			return nil, err
		}

		matchers[i] = matcher
	}

	return matchers, nil
}

func matcherFor(arg expr.Node, paramType reflect.Type, variadic bool, source string) (ArgumentMatcher, error) {
	switch typed := arg.(type) {
	case *expr.Constant:
		return constantMatcher{value: typed.Value}, nil
	case *expr.Matcher:
		if err := checkMatcherType(typed, paramType, source); err != nil {
			return nil, err
		}

		return patternMatcher{marker: typed}, nil
	case *expr.SliceLiteral:
		if !variadic {
			break
		}

		elems := make([]ArgumentMatcher, len(typed.Elems))

		for i, elem := range typed.Elems {
			matcher, err := matcherFor(elem, paramType.Elem(), false, source)
			if err != nil {
				return nil, err
			}

			elems[i] = matcher
		}

		return variadicMatcher{elems: elems}, nil
	}

	return nil, unsupported(ReasonUnmatchableArgument, source,
		"argument %s depends on the mocked object and cannot be matched", arg)
}

// checkMatcherType requires the matcher's type and the parameter type to be assignable in at least
// one direction; otherwise no argument could ever match.
func checkMatcherType(marker *expr.Matcher, paramType reflect.Type, source string) error {
	matcherType := marker.Type()
	if matcherType == nil || matcherType.AssignableTo(paramType) || paramType.AssignableTo(matcherType) {
		return nil
	}

	return unsupported(ReasonUnmatchableMatcher, source,
		"matcher %s of type %s can never match parameter of type %s",
		marker, expr.TypeName(matcherType), expr.TypeName(paramType))
}
