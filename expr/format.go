package expr

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// FormatValue renders a value for diagnostics: nil as nil, strings quoted, collections as their
// first ten elements followed by ", ..." when longer, and enumeration constants (named integers
// whose String is an identifier) as Type.Name.
func FormatValue(value any) string {
	if value == nil {
		return "nil"
	}

	val := reflect.ValueOf(value)

	if IsNillable(val.Type()) && val.IsNil() {
		return "nil"
	}

	switch val.Kind() { //nolint:exhaustive // the remaining kinds print as fmt shows them
	case reflect.String:
		return strconv.Quote(val.String())
	case reflect.Slice, reflect.Array:
		return formatList(val)
	case reflect.Map:
		return formatMap(val)
	case reflect.Func:
		return TypeName(val.Type())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if name, ok := enumName(value); ok {
			return name
		}
	}

	return fmt.Sprint(value)
}

// String renders the assignment.
func (a *Assignment) String() string {
	return fmt.Sprintf("%s %s %s", a.Target, a.Op, nodeString(a.Value))
}

// String renders the operation.
func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", nodeString(b.X), b.Op, nodeString(b.Y))
}

// String renders the literal.
func (c *Composite) String() string {
	fields := make([]string, len(c.Fields))
	for i, field := range c.Fields {
		fields[i] = field.Name + ": " + nodeString(field.Value)
	}

	prefix := ""
	if c.typ.Kind() == reflect.Pointer {
		prefix = "&"
	}

	return prefix + TypeName(derefType(c.typ)) + "{" + strings.Join(fields, ", ") + "}"
}

// String renders the conversion.
func (c *Conversion) String() string {
	return TypeName(c.To) + "(" + nodeString(c.X) + ")"
}

// String renders obj.Name.
func (f *FieldAccess) String() string {
	return nodeString(f.Object) + "." + f.Name
}

// String renders the call.
func (f *FuncCall) String() string {
	return f.Name + "(" + joinNodes(f.Args) + ")"
}

// String renders obj[k] or obj.Name[k...].
func (i *IndexAccess) String() string {
	if i.Name == "" {
		return nodeString(i.Object) + "[" + joinNodes(i.Keys) + "]"
	}

	return nodeString(i.Object) + "." + i.Name + "[" + joinNodes(i.Keys) + "]"
}

// String renders x => body, or (a, b) => body.
func (l *Lambda) String() string {
	names := make([]string, len(l.Params))
	for i, param := range l.Params {
		names[i] = param.Name
	}

	head := strings.Join(names, ", ")
	if len(names) != 1 {
		head = "(" + head + ")"
	}

	return head + " => " + nodeString(l.Body)
}

// String renders Name(args...).
func (m *Matcher) String() string {
	return m.Name + "(" + joinNodes(m.Args) + ")"
}

// String renders obj.Name(args...).
func (c *MethodCall) String() string {
	return nodeString(c.Object) + "." + c.Method.Name + FormatTypeArgs(c.Method.TypeArgs) +
		"(" + joinNodes(c.Args) + ")"
}

// String renders obj.Name.
func (p *PropertyAccess) String() string {
	return nodeString(p.Object) + "." + p.Name
}

// String renders the quoted lambda.
func (q *Quote) String() string {
	return nodeString(q.Lambda)
}

// String renders []T{elems...}.
func (s *SliceLiteral) String() string {
	return "[]" + TypeName(s.typ.Elem()) + "{" + joinNodes(s.Elems) + "}"
}

// String renders the operation.
func (u *Unary) String() string {
	return u.Op.String() + nodeString(u.X)
}

// FormatTypeArgs renders [A, B], or nothing for no type arguments.
func FormatTypeArgs(typeArgs []reflect.Type) string {
	if len(typeArgs) == 0 {
		return ""
	}

	names := make([]string, len(typeArgs))
	for i, arg := range typeArgs {
		names[i] = TypeName(arg)
	}

	return "[" + strings.Join(names, ", ") + "]"
}

const maxListed = 10

func enumName(value any) (string, bool) {
	stringer, ok := value.(fmt.Stringer)
	if !ok || reflect.TypeOf(value).Name() == "" {
		return "", false
	}

	name := stringer.String()
	if name == "" {
		return "", false
	}

	for i, r := range name {
		if !(unicode.IsLetter(r) || r == '_' || (i > 0 && unicode.IsDigit(r))) {
			return "", false
		}
	}

	return TypeName(reflect.TypeOf(value)) + "." + name, true
}

func formatList(val reflect.Value) string {
	items := make([]string, 0, min(val.Len(), maxListed)+1)

	for i := range min(val.Len(), maxListed) {
		items = append(items, FormatValue(val.Index(i).Interface()))
	}

	if val.Len() > maxListed {
		items = append(items, "...")
	}

	return "[" + strings.Join(items, ", ") + "]"
}

func formatMap(val reflect.Value) string {
	entries := make([]string, 0, val.Len())

	iter := val.MapRange()
	for iter.Next() {
		entries = append(entries, FormatValue(iter.Key().Interface())+": "+FormatValue(iter.Value().Interface()))
	}

	slices.Sort(entries)

	if len(entries) > maxListed {
		entries = append(entries[:maxListed], "...")
	}

	return "map[" + strings.Join(entries, ", ") + "]"
}

func joinNodes(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, node := range nodes {
		parts[i] = nodeString(node)
	}

	return strings.Join(parts, ", ")
}

func nodeString(node Node) string {
	if node == nil {
		return "<nil>"
	}

	return node.String()
}
