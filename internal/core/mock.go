package core

import (
	"reflect"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"

	"github.com/toejough/impmock/expr"
)

// Behavior selects what a mock does with calls no setup handles.
type Behavior int

// Behavior values.
const (
	// Loose answers unhandled calls with default values.
	Loose Behavior = iota
	// Strict fails unhandled calls, and calls whose setup produces no result.
	Strict
)

// String returns the behavior name.
func (b Behavior) String() string {
	if b == Strict {
		return "Strict"
	}

	return "Loose"
}

// Option configures a Mock.
type Option func(*Mock)

// WithBehavior sets the mock's behavior. The default is Loose.
func WithBehavior(behavior Behavior) Option {
	return func(m *Mock) {
		m.behavior = behavior
	}
}

// WithDefaultValue sets the provider of default results. The default is EmptyDefaults.
func WithDefaultValue(provider DefaultValueProvider) Option {
	return func(m *Mock) {
		m.defaults = provider
	}
}

// WithExtraInterfaces requires the proxy to implement types as well.
func WithExtraInterfaces(types ...reflect.Type) Option {
	return func(m *Mock) {
		m.extras = append(m.extras, types...)
	}
}

// WithLoggers sets the loggers interception and setup resolution are reported to. The default
// discards everything.
func WithLoggers(loggers ldlog.Loggers) Option {
	return func(m *Mock) {
		m.loggers = loggers
	}
}

// WithName replaces the generated Mock<pkg.Type:N> name.
func WithName(name string) Option {
	return func(m *Mock) {
		m.name = name
	}
}

// WithTarget sets the real implementation calls are forwarded to when a setup calls through.
func WithTarget(target any) Option {
	return func(m *Mock) {
		m.target = target
	}
}

// WithTimer replaces the timer delays wait on.
func WithTimer(timer Timer) Option {
	return func(m *Mock) {
		m.timer = timer
	}
}

// Mock is the interceptor behind one proxy. It logs every call, resolves the newest setup
// matching it, and runs that setup's behaviors.
type Mock struct {
	id         int64
	name       string
	mockedType reflect.Type
	extras     []reflect.Type
	behavior   Behavior
	defaults   DefaultValueProvider
	factory    *ProxyFactory
	target     any
	loggers    ldlog.Loggers
	timer      Timer
	proxy      any

	setups      SetupCollection
	invocations InvocationCollection

	mu           sync.Mutex
	defaultMocks map[reflect.Type]*Mock
}

// NewMock creates a mock of the interface type t, with a proxy built by factory.
func NewMock(t reflect.Type, factory *ProxyFactory, opts ...Option) (*Mock, error) {
	if factory == nil {
		return nil, usage(ReasonNilArgument, expr.TypeName(t), "proxy factory must not be nil")
	}

	mock := &Mock{
		id:           nextMockID.Add(1),
		mockedType:   t,
		defaults:     EmptyDefaults{},
		factory:      factory,
		loggers:      ldlog.NewDisabledLoggers(),
		timer:        realTimer{},
		defaultMocks: make(map[reflect.Type]*Mock),
	}

	for _, opt := range opts {
		opt(mock)
	}

	if mock.name == "" {
		mock.name = "Mock<" + t.String() + ":" + strconv.FormatInt(mock.id, 10) + ">"
	}

	if mock.target != nil && !reflect.TypeOf(mock.target).Implements(t) {
		return nil, usage(ReasonInvalidArgument, expr.TypeName(t),
			"target %T does not implement the mocked type", mock.target)
	}

	proxy, err := factory.Generate(t, mock.extras, mock)
	if err != nil {
		return nil, err
	}

	mock.proxy = proxy
	mock.loggers.Debugf("%s: created (%s)", mock.name, mock.behavior)

	return mock, nil
}

// As returns the proxy viewed as the interface type t, which the proxy must implement.
func (m *Mock) As(t reflect.Type) (any, error) {
	if t.Kind() != reflect.Interface || !reflect.TypeOf(m.proxy).Implements(t) {
		return nil, usage(ReasonExtraInterface, expr.TypeName(t), "%s does not implement it", m.name)
	}

	return m.proxy, nil
}

// Behavior returns the mock's behavior.
func (m *Mock) Behavior() Behavior {
	return m.behavior
}

// Intercept implements Interceptor.
func (m *Mock) Intercept(inv *Invocation) {
	m.invocations.Add(inv)
	m.loggers.Debugf("%s: intercepted %s", m.name, inv)

	setup := m.setups.FindLast(inv)
	if setup == nil {
		m.unmatched(inv)

		return
	}

	inv.matched = setup
	m.loggers.Debugf("%s: %s resolved to setup %s", m.name, inv, setup)

	if err := setup.Execute(inv); err != nil {
		m.loggers.Warnf("%s: %v", m.name, err)
		inv.fail(err)
	}
}

// Invocations returns the calls made on the proxy, in order.
func (m *Mock) Invocations() []*Invocation {
	return m.invocations.All()
}

// MockedType returns the interface type the mock implements.
func (m *Mock) MockedType() reflect.Type {
	return m.mockedType
}

// Name returns the mock's name, which unconfigured String calls return.
func (m *Mock) Name() string {
	return m.name
}

// Object returns the proxy.
func (m *Mock) Object() any {
	return m.proxy
}

// Reset forgets every setup and every recorded call.
func (m *Mock) Reset() {
	m.setups.Clear()
	m.invocations.Clear()

	m.mu.Lock()
	m.defaultMocks = make(map[reflect.Type]*Mock)
	m.mu.Unlock()
}

// ResetCalls forgets every recorded call but keeps the setups.
func (m *Mock) ResetCalls() {
	m.invocations.Clear()
}

// Setup registers a setup for the member access lambda describes. For a chain such as
// x => x.A().B(1), the intermediate accesses return inner mocks and the setup applies to the last
// access. condition may be nil.
func (m *Mock) Setup(lambda *expr.Lambda, condition Condition) (*MethodCallSetup, error) {
	stack, err := Split(lambda)
	if err != nil {
		return nil, err
	}

	if err := m.checkRoot(lambda); err != nil {
		return nil, err
	}

	target := m

	for stack.Len() > 1 {
		target, err = target.nestedMockFor(stack.Pop(), condition)
		if err != nil {
			return nil, err
		}
	}

	setup := newMethodCallSetup(target, stack.Pop(), condition)
	target.addSetup(setup)

	return setup, nil
}

// SetupAllProperties makes every property of the mocked type remember written values.
func (m *Mock) SetupAllProperties() *AllPropertiesStubSetup {
	setup := newAllPropertiesStubSetup(m)
	m.addSetup(setup)

	return setup
}

// SetupProperty makes the named property remember written values, starting from initial when
// given and from the default value otherwise.
func (m *Mock) SetupProperty(name string, initial ...any) (*PropertyStubSetup, error) {
	property := expr.ModelOf(m.mockedType).Property(name)
	if property == nil {
		return nil, usage(ReasonInvalidArgument, expr.TypeName(m.mockedType)+"."+name, "no such property")
	}

	var value reflect.Value

	switch len(initial) {
	case 0:
		value = m.defaults.DefaultValue(property.Type, m)
	case 1:
		constant, err := expr.TypedConst(initial[0], property.Type)
		if err != nil {
			return nil, usage(ReasonInvalidArgument, expr.TypeName(m.mockedType)+"."+name, "%v", err)
		}

		value = argumentValue(constant.Value, property.Type)
	default:
		return nil, usage(ReasonInvalidArgument, expr.TypeName(m.mockedType)+"."+name,
			"at most one initial value is allowed, got %d", len(initial))
	}

	setup := newPropertyStubSetup(m, property, value)
	m.addSetup(setup)

	return setup, nil
}

// Setups returns every setup, oldest first, including overridden ones.
func (m *Mock) Setups() []Setup {
	return m.setups.All()
}

// String returns the mock's name.
func (m *Mock) String() string {
	return m.name
}

func (m *Mock) addSetup(setup Setup) {
	if overridden := m.setups.Add(setup); overridden > 0 {
		m.loggers.Infof("%s: setup %s overrides %d earlier setup(s)", m.name, setup, overridden)
	}

	m.loggers.Debugf("%s: added setup %s", m.name, setup)
}

// checkRoot requires the lambda's parameter to be a type the proxy implements.
func (m *Mock) checkRoot(lambda *expr.Lambda) error {
	root := lambda.Params[0].Type()
	if root == m.mockedType || slices.Contains(m.extras, root) {
		return nil
	}

	if root != nil && root.Kind() == reflect.Interface && reflect.TypeOf(m.proxy).Implements(root) {
		return nil
	}

	return usage(ReasonInvalidArgument, lambda.String(), "%s does not implement %s", m.name, expr.TypeName(root))
}

// childMock creates an inner mock sharing this mock's configuration.
func (m *Mock) childMock(t reflect.Type) (*Mock, error) {
	return NewMock(t, m.factory,
		WithBehavior(m.behavior),
		WithDefaultValue(m.defaults),
		WithLoggers(m.loggers),
		WithTimer(m.timer),
	)
}

// defaultMock returns the inner mock MockDefaults hands out for t, creating it on first use.
func (m *Mock) defaultMock(t reflect.Type) (*Mock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if inner, ok := m.defaultMocks[t]; ok {
		return inner, nil
	}

	inner, err := m.childMock(t)
	if err != nil {
		return nil, err
	}

	m.defaultMocks[t] = inner

	return inner, nil
}

// fallback produces the result of a matched call whose setup produced none.
func (m *Mock) fallback(inv *Invocation) error {
	method := inv.Method()
	if method.IsVoid() {
		return inv.SetReturnValues()
	}

	if m.behavior == Strict {
		return expectationFailed(ReasonReturnValueRequired, inv.String(),
			"invocation needs to return a value and therefore must have a corresponding setup that provides it")
	}

	return inv.SetReturnValues(DefaultResults(method, m.defaults, m)...)
}

// nestedMockFor returns the inner mock a chained setup continues on, reusing the one an equal
// unconditional chain already created.
func (m *Mock) nestedMockFor(expectation *MethodExpectation, condition Condition) (*Mock, error) {
	if condition == nil {
		existing := m.setups.FindAll(func(setup Setup) bool {
			_, ok := setup.(*NestedSetup)

			return ok && !setup.IsConditional() && setup.Expectation().Equal(expectation)
		})

		if len(existing) > 0 {
			nested, _ := existing[len(existing)-1].(*NestedSetup)

			return nested.inner, nil
		}
	}

	method := expectation.Method()
	if len(method.Results) != 1 || method.Results[0].Kind() != reflect.Interface {
		return nil, unsupported(ReasonUnsplittable, expectation.String(),
			"%s must return a single interface to be set up through", method)
	}

	inner, err := m.childMock(method.Results[0])
	if err != nil {
		return nil, err
	}

	m.addSetup(&NestedSetup{
		setupBase: setupBase{expectation: expectation, condition: condition},
		inner:     inner,
	})

	return inner, nil
}

func (m *Mock) unmatched(inv *Invocation) {
	method := inv.Method()

	if isStringMethod(method) {
		_ = inv.SetReturnValues(m.name)

		return
	}

	if m.behavior == Strict {
		err := expectationFailed(ReasonNoSetup, inv.String(),
			"invocation failed with mock behavior Strict; all invocations on the mock must have a corresponding setup")
		m.loggers.Warnf("%s: %v", m.name, err)
		inv.fail(err)

		return
	}

	m.loggers.Debugf("%s: %s has no setup; returning defaults", m.name, inv)
	_ = inv.SetReturnValues(DefaultResults(method, m.defaults, m)...)
}

func isStringMethod(method *expr.Method) bool {
	return method.Name == "String" && len(method.Params) == 0 && len(method.Results) == 1 &&
		method.Results[0].Kind() == reflect.String
}

// unexported variables.
var (
	//nolint:gochecknoglobals // mock numbering is process-wide
	nextMockID atomic.Int64
)
