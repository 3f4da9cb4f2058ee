package expr

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// MemberKind says how a Method is reached from source: as a plain call, a property accessor,
// an indexer accessor, or an event subscription accessor.
type MemberKind int

// MemberKind values.
const (
	MemberMethod MemberKind = iota
	MemberGetter
	MemberSetter
	MemberIndexGetter
	MemberIndexSetter
	MemberEventAdder
	MemberEventRemover
)

// String returns the kind name.
func (k MemberKind) String() string {
	switch k {
	case MemberMethod:
		return "method"
	case MemberGetter:
		return "getter"
	case MemberSetter:
		return "setter"
	case MemberIndexGetter:
		return "index getter"
	case MemberIndexSetter:
		return "index setter"
	case MemberEventAdder:
		return "event adder"
	case MemberEventRemover:
		return "event remover"
	default:
		return fmt.Sprintf("MemberKind(%d)", int(k))
	}
}

// Event is an add/remove method pair taking a func handler: AddX(h) and RemoveX(h).
type Event struct {
	Name    string
	Handler reflect.Type
	Adder   *Method
	Remover *Method
}

// Indexer is a keyed accessor pair: X(k...) V and SetX(k..., V).
type Indexer struct {
	Name   string
	Keys   []reflect.Type
	Elem   reflect.Type
	Getter *Method
	Setter *Method
}

// Method describes one callable member of a type.
type Method struct {
	// Owner is the type the member was looked up on.
	Owner reflect.Type
	Name  string
	Kind  MemberKind
	// Member is the property, indexer or event name for accessors, and Name otherwise.
	Member   string
	Params   []reflect.Type
	Results  []reflect.Type
	Variadic bool
	TypeArgs []reflect.Type
	// Virtual is true for members a proxy can intercept (interface methods).
	Virtual bool
}

// MethodOf builds a descriptor from a reflected method of owner.
func MethodOf(owner reflect.Type, method reflect.Method) *Method {
	funcType := method.Type

	// methods of concrete types carry the receiver as their first input
	offset := 0
	if owner.Kind() != reflect.Interface {
		offset = 1
	}

	params := make([]reflect.Type, 0, funcType.NumIn()-offset)
	for i := offset; i < funcType.NumIn(); i++ {
		params = append(params, funcType.In(i))
	}

	results := make([]reflect.Type, 0, funcType.NumOut())
	for i := range funcType.NumOut() {
		results = append(results, funcType.Out(i))
	}

	return &Method{
		Owner:    owner,
		Name:     method.Name,
		Kind:     MemberMethod,
		Member:   method.Name,
		Params:   params,
		Results:  results,
		Variadic: funcType.IsVariadic(),
		Virtual:  owner.Kind() == reflect.Interface,
	}
}

// StringMethod describes fmt.Stringer's String, which every proxy routes through its interceptor.
func StringMethod() *Method {
	return stringMethod
}

// Instantiate returns a copy of m bound to the given type arguments.
func (m *Method) Instantiate(typeArgs ...reflect.Type) *Method {
	instance := *m
	instance.TypeArgs = append([]reflect.Type(nil), typeArgs...)

	return &instance
}

// IsVoid reports whether the method has no results.
func (m *Method) IsVoid() bool {
	return len(m.Results) == 0
}

// ReturnsError reports whether the last result is the error interface.
func (m *Method) ReturnsError() bool {
	return len(m.Results) > 0 && m.Results[len(m.Results)-1] == errorType
}

// Same reports whether both descriptors denote the same member of the same owner with the same
// type arguments.
func (m *Method) Same(other *Method) bool {
	if m == other {
		return true
	}

	if m == nil || other == nil {
		return false
	}

	return m.Owner == other.Owner && m.Name == other.Name && TypesEqual(m.TypeArgs, other.TypeArgs)
}

// Signature returns the method's function type without a receiver.
func (m *Method) Signature() reflect.Type {
	return reflect.FuncOf(m.Params, m.Results, m.Variadic)
}

// String renders Owner.Name.
func (m *Method) String() string {
	return TypeName(m.Owner) + "." + m.Name
}

// Property is a getter/setter pair: X() T and SetX(T). Either accessor may be missing.
type Property struct {
	Name   string
	Type   reflect.Type
	Getter *Method
	Setter *Method
}

// TypeModel is the member model of a type: its methods plus the properties, indexers and events
// inferred from method pairs.
type TypeModel struct {
	Type reflect.Type

	methods    []*Method
	byName     map[string]*Method
	properties map[string]*Property
	indexers   map[string]*Indexer
	events     map[string]*Event
}

// ModelOf returns the cached member model of t.
func ModelOf(t reflect.Type) *TypeModel {
	if cached, ok := models.Load(t); ok {
		model, _ := cached.(*TypeModel)

		return model
	}

	model, _ := models.LoadOrStore(t, buildModel(t))
	typed, _ := model.(*TypeModel)

	return typed
}

// Event returns the named event, or nil.
func (tm *TypeModel) Event(name string) *Event {
	return tm.events[name]
}

// Indexer returns the named indexer, or nil.
func (tm *TypeModel) Indexer(name string) *Indexer {
	return tm.indexers[name]
}

// Method returns the named method, or nil.
func (tm *TypeModel) Method(name string) *Method {
	return tm.byName[name]
}

// Methods returns all methods in declaration (alphabetical) order.
func (tm *TypeModel) Methods() []*Method {
	return append([]*Method(nil), tm.methods...)
}

// Properties returns the inferred getter/setter pairs.
func (tm *TypeModel) Properties() []*Property {
	props := make([]*Property, 0, len(tm.properties))

	for _, method := range tm.methods {
		if prop, ok := tm.properties[method.Member]; ok && method.Kind == MemberGetter {
			props = append(props, prop)
		}
	}

	return props
}

// Property returns the named property. A nullary single-result method X, or a single-argument
// void method SetX, is a read-only or write-only property even without its pair.
func (tm *TypeModel) Property(name string) *Property {
	if prop, ok := tm.properties[name]; ok {
		return prop
	}

	getter := tm.byName[name]
	if getter != nil && (len(getter.Params) != 0 || len(getter.Results) != 1) {
		getter = nil
	}

	setter := tm.byName[setterPrefix+name]
	if setter != nil && (len(setter.Params) != 1 || !setter.IsVoid() || setter.Variadic) {
		setter = nil
	}

	switch {
	case getter != nil:
		return &Property{Name: name, Type: getter.Results[0], Getter: getter}
	case setter != nil:
		return &Property{Name: name, Type: setter.Params[0], Setter: setter}
	default:
		return nil
	}
}

// TypeName renders a type the way diagnostics show it: the bare name for named types and the
// full spelling otherwise.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}

	if t.Name() != "" {
		return t.Name()
	}

	return t.String()
}

// TypesEqual compares two type lists positionally.
func TypesEqual(a, b []reflect.Type) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

const (
	adderPrefix   = "Add"
	removerPrefix = "Remove"
	setterPrefix  = "Set"
)

// unexported variables.
var (
	errorType = reflect.TypeFor[error]()
	//nolint:gochecknoglobals // member models are immutable and shared across mocks
	models sync.Map
	//nolint:gochecknoglobals // immutable descriptor
	stringMethod = &Method{
		Owner:   reflect.TypeFor[fmt.Stringer](),
		Name:    "String",
		Kind:    MemberMethod,
		Member:  "String",
		Results: []reflect.Type{reflect.TypeFor[string]()},
		Virtual: true,
	}
)

func buildModel(t reflect.Type) *TypeModel {
	model := &TypeModel{
		Type:       t,
		byName:     make(map[string]*Method, t.NumMethod()),
		properties: map[string]*Property{},
		indexers:   map[string]*Indexer{},
		events:     map[string]*Event{},
	}

	for i := range t.NumMethod() {
		method := MethodOf(t, t.Method(i))
		model.methods = append(model.methods, method)
		model.byName[method.Name] = method
	}

	for _, method := range model.methods {
		inferSetterPair(model, method)
		inferEventPair(model, method)
	}

	return model
}

func inferEventPair(model *TypeModel, adder *Method) {
	name, ok := strings.CutPrefix(adder.Name, adderPrefix)
	if !ok || name == "" {
		return
	}

	remover := model.byName[removerPrefix+name]
	if remover == nil || !isHandlerAccessor(adder) || !isHandlerAccessor(remover) {
		return
	}

	if adder.Params[0] != remover.Params[0] || adder.Params[0].Kind() != reflect.Func {
		return
	}

	adder.Kind, adder.Member = MemberEventAdder, name
	remover.Kind, remover.Member = MemberEventRemover, name
	model.events[name] = &Event{Name: name, Handler: adder.Params[0], Adder: adder, Remover: remover}
}

func inferSetterPair(model *TypeModel, setter *Method) {
	name, ok := strings.CutPrefix(setter.Name, setterPrefix)
	if !ok || name == "" || !setter.IsVoid() || setter.Variadic || len(setter.Params) == 0 {
		return
	}

	getter := model.byName[name]
	if getter == nil || len(getter.Results) != 1 || getter.Variadic {
		return
	}

	keys := setter.Params[:len(setter.Params)-1]
	value := setter.Params[len(setter.Params)-1]

	if value != getter.Results[0] || !TypesEqual(keys, getter.Params) {
		return
	}

	if len(keys) == 0 {
		getter.Kind, getter.Member = MemberGetter, name
		setter.Kind, setter.Member = MemberSetter, name
		model.properties[name] = &Property{Name: name, Type: value, Getter: getter, Setter: setter}

		return
	}

	getter.Kind, getter.Member = MemberIndexGetter, name
	setter.Kind, setter.Member = MemberIndexSetter, name
	model.indexers[name] = &Indexer{
		Name:   name,
		Keys:   append([]reflect.Type(nil), keys...),
		Elem:   value,
		Getter: getter,
		Setter: setter,
	}
}

func isHandlerAccessor(method *Method) bool {
	return len(method.Params) == 1 && method.IsVoid() && !method.Variadic
}
