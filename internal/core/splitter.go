package core

import (
	"github.com/toejough/impmock/expr"
)

// ExpectationStack holds the parts of a split chain; Pop returns them left to right.
type ExpectationStack []*MethodExpectation

// Len returns the number of parts left.
func (s *ExpectationStack) Len() int {
	return len(*s)
}

// Pop removes and returns the leftmost remaining part.
func (s *ExpectationStack) Pop() *MethodExpectation {
	last := len(*s) - 1
	part := (*s)[last]
	*s = (*s)[:last]

	return part
}

// Split decomposes a one-parameter lambda such as x => x.A(1).B.C(2) into single-member
// expectations, one per member access, each over a fresh parameter of the type it is called on.
// The lambda is partially evaluated first, so captured values are read now.
func Split(lambda *expr.Lambda) (ExpectationStack, error) {
	source := lambda.String()

	if len(lambda.Params) != 1 {
		return nil, usage(ReasonWrongLambdaParameters, source, "setup expressions take exactly one parameter")
	}

	if err := expr.Err(lambda); err != nil {
		return nil, unsupported(ReasonBuildError, source, "%v", err)
	}

	folded, err := expr.PartialEval(lambda)
	if err != nil {
		return nil, unsupported(ReasonBuildError, source, "%v", err)
	}

	root := lambda.Params[0]
	node := folded.(*expr.Lambda).Body //nolint:forcetypeassert // PartialEval keeps lambdas

	var stack ExpectationStack

	for node != expr.Node(root) {
		remainder, part, err := splitOne(node, root, source)
		if err != nil {
			return nil, err
		}

		stack = append(stack, part)
		node = remainder
	}

	if len(stack) == 0 {
		return nil, unsupported(ReasonUnsplittable, source, "expression does not access a member")
	}

	return stack, nil
}

// splitOne peels the outermost member access off node, returning what it was accessed on and the
// expectation for the access.
func splitOne(node expr.Node, root *expr.Parameter, source string) (expr.Node, *MethodExpectation, error) {
	switch typed := node.(type) {
	case *expr.MethodCall:
		return part(typed.Object, typed.Method, typed.Args, root, source)
	case *expr.PropertyAccess:
		if typed.Property == nil || typed.Property.Getter == nil {
			return nil, nil, unsupported(ReasonUnsplittable, source, "%s is not readable", typed)
		}

		return part(typed.Object, typed.Property.Getter, nil, root, source)
	case *expr.IndexAccess:
		if typed.Indexer == nil {
			return nil, nil, unsupported(ReasonUnsplittable, source, "%s is not an indexer", typed)
		}

		return part(typed.Object, typed.Indexer.Getter, typed.Keys, root, source)
	case *expr.Assignment:
		return splitAssignment(typed, root, source)
	default:
		return nil, nil, unsupported(ReasonUnsplittable, source, "%s (%s) is not a member access", node, node.Kind())
	}
}

func splitAssignment(node *expr.Assignment, root *expr.Parameter, source string) (expr.Node, *MethodExpectation, error) {
	switch target := node.Target.(type) {
	case *expr.PropertyAccess:
		var accessor *expr.Method

		switch {
		case node.Op == expr.OpAssign && target.Property != nil:
			accessor = target.Property.Setter
		case node.Op == expr.OpAddAssign && target.Event != nil:
			accessor = target.Event.Adder
		case node.Op == expr.OpSubAssign && target.Event != nil:
			accessor = target.Event.Remover
		}

		if accessor == nil {
			return nil, nil, unsupported(ReasonUnsplittable, source, "%s is not writable", target)
		}

		return part(target.Object, accessor, substitute(nil, accessor, node.Value), root, source)
	case *expr.IndexAccess:
		if target.Indexer == nil || node.Op != expr.OpAssign {
			return nil, nil, unsupported(ReasonUnsplittable, source, "%s is not a writable indexer", target)
		}

		setter := target.Indexer.Setter

		return part(target.Object, setter, substitute(target.Keys, setter, node.Value), root, source)
	default:
		return nil, nil, unsupported(ReasonUnsplittable, source, "cannot assign to %s", node.Target)
	}
}

// substitute builds an accessor's argument list from the arguments of the read it replaces, with
// value in the accessor's last parameter.
func substitute(readArgs []expr.Node, accessor *expr.Method, value expr.Node) []expr.Node {
	args := make([]expr.Node, len(accessor.Params))
	copy(args, readArgs)
	args[len(args)-1] = value

	return args
}

func part(
	object expr.Node,
	method *expr.Method,
	args []expr.Node,
	root *expr.Parameter,
	source string,
) (expr.Node, *MethodExpectation, error) {
	if !method.Virtual {
		return nil, nil, unsupported(ReasonNonOverridable, source,
			"%s cannot be intercepted; only interface members can be set up", method)
	}

	if object.Type() == nil {
		return nil, nil, unsupported(ReasonUnsplittable, source, "%s has no value", object)
	}

	param := expr.Param(root.Name, object.Type())
	lambda := expr.NewLambda(accessNode(param, method, args), param)

	expectation, err := NewMethodExpectation(lambda, method, args)
	if err != nil {
		return nil, nil, err
	}

	return object, expectation, nil
}

// accessNode rebuilds a single member access in the syntax the member is used with.
func accessNode(param *expr.Parameter, method *expr.Method, args []expr.Node) expr.Node {
	switch method.Kind {
	case expr.MemberGetter:
		return expr.Prop(param, method.Member)
	case expr.MemberSetter:
		return expr.Assign(expr.Prop(param, method.Member), args[0])
	case expr.MemberIndexGetter:
		return expr.Index(param, method.Member, nodesAsAny(args)...)
	case expr.MemberIndexSetter:
		last := len(args) - 1

		return expr.Assign(expr.Index(param, method.Member, nodesAsAny(args[:last])...), args[last])
	case expr.MemberEventAdder:
		return expr.AddAssign(expr.Prop(param, method.Member), args[0])
	case expr.MemberEventRemover:
		return expr.SubAssign(expr.Prop(param, method.Member), args[0])
	default:
		return expr.CallMethod(param, method, args)
	}
}

func nodesAsAny(nodes []expr.Node) []any {
	values := make([]any, len(nodes))
	for i, node := range nodes {
		values[i] = node
	}

	return values
}
