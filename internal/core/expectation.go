package core

import (
	"reflect"

	"github.com/toejough/impmock/expr"
)

// Expectation decides which invocations a setup applies to.
type Expectation interface {
	Matches(inv *Invocation) bool
	// Equal reports whether other describes the same calls, which makes a newer setup override an
	// older one.
	Equal(other Expectation) bool
	// Expression returns the lambda the expectation describes.
	Expression() expr.Node
	String() string
}

// MethodExpectation matches calls of one member with arguments accepted by its matchers.
type MethodExpectation struct {
	lambda   *expr.Lambda
	method   *expr.Method
	args     []expr.Node
	matchers []ArgumentMatcher
}

// NewMethodExpectation builds the expectation x => x.method(args...) over lambda. args must be
// partially evaluated already.
func NewMethodExpectation(lambda *expr.Lambda, method *expr.Method, args []expr.Node) (*MethodExpectation, error) {
	matchers, err := matchersFor(method, args, lambda.String())
	if err != nil {
		return nil, err
	}

	return &MethodExpectation{lambda: lambda, method: method, args: args, matchers: matchers}, nil
}

// Arguments returns the folded argument nodes.
func (e *MethodExpectation) Arguments() []expr.Node {
	return e.args
}

// Equal implements Expectation: same member and structurally equal arguments.
func (e *MethodExpectation) Equal(other Expectation) bool {
	that, ok := other.(*MethodExpectation)
	if !ok || !e.method.Same(that.method) || len(e.args) != len(that.args) {
		return false
	}

	for i := range e.args {
		if !expr.Equal(e.args[i], that.args[i]) {
			return false
		}
	}

	return true
}

// Expression implements Expectation.
func (e *MethodExpectation) Expression() expr.Node {
	return e.lambda
}

// Lambda returns the single-call lambda the expectation was built from.
func (e *MethodExpectation) Lambda() *expr.Lambda {
	return e.lambda
}

// Matches implements Expectation.
func (e *MethodExpectation) Matches(inv *Invocation) bool {
	if !memberCompatible(e.method, inv) || len(inv.Arguments()) != len(e.matchers) {
		return false
	}

	for i, matcher := range e.matchers {
		if !matcher.Matches(inv.Arguments()[i], e.method.Params[i]) {
			return false
		}
	}

	return true
}

// Method returns the expected member.
func (e *MethodExpectation) Method() *expr.Method {
	return e.method
}

// String renders the lambda.
func (e *MethodExpectation) String() string {
	return e.lambda.String()
}

// PropertyExpectation matches reads and writes of one property.
type PropertyExpectation struct {
	property *expr.Property
	owner    reflect.Type
}

// Equal implements Expectation.
func (e *PropertyExpectation) Equal(other Expectation) bool {
	that, ok := other.(*PropertyExpectation)

	return ok && e.owner == that.owner && e.property.Name == that.property.Name
}

// Expression implements Expectation: x => x.Name.
func (e *PropertyExpectation) Expression() expr.Node {
	x := expr.Param("x", e.owner)

	return expr.NewLambda(expr.Prop(x, e.property.Name), x)
}

// Matches implements Expectation.
func (e *PropertyExpectation) Matches(inv *Invocation) bool {
	return (e.property.Getter != nil && memberCompatible(e.property.Getter, inv)) ||
		(e.property.Setter != nil && memberCompatible(e.property.Setter, inv))
}

// String renders Type.Name.
func (e *PropertyExpectation) String() string {
	return expr.TypeName(e.owner) + "." + e.property.Name
}

// AllPropertiesExpectation matches reads and writes of every property of a type.
type AllPropertiesExpectation struct {
	model *expr.TypeModel
}

// Equal implements Expectation.
func (e *AllPropertiesExpectation) Equal(other Expectation) bool {
	that, ok := other.(*AllPropertiesExpectation)

	return ok && e.model == that.model
}

// Expression implements Expectation: x => x.
func (e *AllPropertiesExpectation) Expression() expr.Node {
	x := expr.Param("x", e.model.Type)

	return expr.NewLambda(x, x)
}

// Matches implements Expectation.
func (e *AllPropertiesExpectation) Matches(inv *Invocation) bool {
	return e.property(inv) != nil
}

// String renders Type.*.
func (e *AllPropertiesExpectation) String() string {
	return expr.TypeName(e.model.Type) + ".*"
}

func (e *AllPropertiesExpectation) property(inv *Invocation) *expr.Property {
	for _, prop := range e.model.Properties() {
		if memberCompatible(prop.Getter, inv) || memberCompatible(prop.Setter, inv) {
			return prop
		}
	}

	return nil
}

// memberCompatible reports whether an invocation is a call of expected: the same member, or,
// when one side was declared on an interface, the proxy's implementation of expected.
func memberCompatible(expected *expr.Method, inv *Invocation) bool {
	actual := inv.Method()
	if expected.Same(actual) {
		return true
	}

	if expected.Name != actual.Name || !expr.TypesEqual(expected.TypeArgs, actual.TypeArgs) {
		return false
	}

	if expected.Owner.Kind() != reflect.Interface && actual.Owner.Kind() != reflect.Interface {
		return false
	}

	impl := inv.ImplementingMethod()
	if impl == nil {
		return false
	}

	if expected.Owner.Kind() == reflect.Interface && !inv.ProxyType().Implements(expected.Owner) {
		return false
	}

	return impl.Signature() == expected.Signature()
}
