package core

import (
	"reflect"
	"strings"

	"github.com/toejough/impmock/expr"
)

// FormatCall renders a call of method with args in member syntax: Type.Name for getters,
// Type.Name = v for setters, Type.Name[k] and Type.Name[k] = v for indexers, Type.Name += h and
// Type.Name -= h for events, and Type.Name[T](args) for everything else. Variadic arguments are
// shown expanded.
func FormatCall(method *expr.Method, args []any) string {
	prefix := expr.TypeName(method.Owner) + "."
	rendered := formatArgs(method, args)

	switch method.Kind {
	case expr.MemberGetter:
		return prefix + method.Member
	case expr.MemberSetter:
		return prefix + method.Member + " = " + lastOf(rendered)
	case expr.MemberIndexGetter:
		return prefix + method.Member + "[" + strings.Join(rendered, ", ") + "]"
	case expr.MemberIndexSetter:
		keys := rendered
		if len(keys) > 0 {
			keys = keys[:len(keys)-1]
		}

		return prefix + method.Member + "[" + strings.Join(keys, ", ") + "] = " + lastOf(rendered)
	case expr.MemberEventAdder:
		return prefix + method.Member + " += " + lastOf(rendered)
	case expr.MemberEventRemover:
		return prefix + method.Member + " -= " + lastOf(rendered)
	default:
		return prefix + method.Name + expr.FormatTypeArgs(method.TypeArgs) + "(" + strings.Join(rendered, ", ") + ")"
	}
}

func formatArgs(method *expr.Method, args []any) []string {
	rendered := make([]string, 0, len(args))

	for i, arg := range args {
		if method.Variadic && i == len(method.Params)-1 {
			rendered = append(rendered, expandVariadic(arg)...)

			continue
		}

		rendered = append(rendered, expr.FormatValue(arg))
	}

	return rendered
}

func expandVariadic(arg any) []string {
	if arg == nil {
		return nil
	}

	val := reflect.ValueOf(arg)
	if val.Kind() != reflect.Slice {
		return []string{expr.FormatValue(arg)}
	}

	rendered := make([]string, val.Len())
	for i := range val.Len() {
		rendered[i] = expr.FormatValue(val.Index(i).Interface())
	}

	return rendered
}

func lastOf(rendered []string) string {
	if len(rendered) == 0 {
		return ""
	}

	return rendered[len(rendered)-1]
}
