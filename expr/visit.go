package expr

// Visitor's Visit method is invoked for each node encountered by Walk. If the result visitor w is
// not nil, Walk visits each of the children of node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Children returns the direct children of node in evaluation order.
func Children(node Node) []Node {
	switch typed := node.(type) {
	case *FieldAccess:
		return []Node{typed.Object}
	case *MethodCall:
		return append([]Node{typed.Object}, typed.Args...)
	case *PropertyAccess:
		return []Node{typed.Object}
	case *IndexAccess:
		return append([]Node{typed.Object}, typed.Keys...)
	case *Assignment:
		return []Node{typed.Target, typed.Value}
	case *Binary:
		return []Node{typed.X, typed.Y}
	case *Unary:
		return []Node{typed.X}
	case *Conversion:
		return []Node{typed.X}
	case *FuncCall:
		return append([]Node(nil), typed.Args...)
	case *Composite:
		children := make([]Node, len(typed.Fields))
		for i, field := range typed.Fields {
			children[i] = field.Value
		}

		return children
	case *SliceLiteral:
		return append([]Node(nil), typed.Elems...)
	case *Matcher:
		return append([]Node(nil), typed.Args...)
	case *Lambda:
		return []Node{typed.Body}
	case *Quote:
		return []Node{typed.Lambda}
	default:
		return nil
	}
}

// Inspect traverses node depth-first, calling f for each node. If f returns false, Inspect skips
// that node's children.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// Rebuild returns a shallow copy of node with its children replaced, in the order Children
// reports them. Resolved members and types are kept; node is not modified.
func Rebuild(node Node, children []Node) Node {
	switch typed := node.(type) {
	case *FieldAccess:
		rebuilt := *typed
		rebuilt.Object = children[0]

		return &rebuilt
	case *MethodCall:
		rebuilt := *typed
		rebuilt.Object, rebuilt.Args = children[0], children[1:]

		return &rebuilt
	case *PropertyAccess:
		rebuilt := *typed
		rebuilt.Object = children[0]

		return &rebuilt
	case *IndexAccess:
		rebuilt := *typed
		rebuilt.Object, rebuilt.Keys = children[0], children[1:]

		return &rebuilt
	case *Assignment:
		rebuilt := *typed
		rebuilt.Target, rebuilt.Value = children[0], children[1]

		return &rebuilt
	case *Binary:
		rebuilt := *typed
		rebuilt.X, rebuilt.Y = children[0], children[1]

		return &rebuilt
	case *Unary:
		rebuilt := *typed
		rebuilt.X = children[0]

		return &rebuilt
	case *Conversion:
		rebuilt := *typed
		rebuilt.X = children[0]

		return &rebuilt
	case *FuncCall:
		rebuilt := *typed
		rebuilt.Args = children

		return &rebuilt
	case *Composite:
		rebuilt := *typed
		rebuilt.Fields = make([]Binding, len(typed.Fields))

		for i, field := range typed.Fields {
			rebuilt.Fields[i] = Binding{Name: field.Name, Value: children[i]}
		}

		return &rebuilt
	case *SliceLiteral:
		rebuilt := *typed
		rebuilt.Elems = children

		return &rebuilt
	case *Matcher:
		rebuilt := *typed
		rebuilt.Args = children

		return &rebuilt
	case *Lambda:
		return &Lambda{Params: typed.Params, Body: children[0]}
	case *Quote:
		lambda, _ := children[0].(*Lambda)

		return &Quote{Lambda: lambda}
	default:
		return node
	}
}

// Walk traverses node depth-first: it starts by calling v.Visit(node); node must not be nil. If
// the visitor w returned by v.Visit(node) is not nil, Walk is invoked recursively with visitor w
// for each of the non-nil children of node, followed by a call of w.Visit(nil).
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	for _, child := range Children(node) {
		if child != nil {
			Walk(v, child)
		}
	}

	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if node != nil && f(node) {
		return f
	}

	return nil
}
