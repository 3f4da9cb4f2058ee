package expr

import (
	"fmt"
	"reflect"
)

// AssignOp is the operator of an Assignment.
type AssignOp int

// AssignOp values.
const (
	OpAssign AssignOp = iota
	OpAddAssign
	OpSubAssign
)

// String returns the operator symbol.
func (op AssignOp) String() string {
	switch op {
	case OpAddAssign:
		return "+="
	case OpSubAssign:
		return "-="
	default:
		return "="
	}
}

// Assignment writes Value to Target. Targets are properties, indexers, events (for += and -=) and
// struct fields.
type Assignment struct {
	Op     AssignOp
	Target Node
	Value  Node
	err    error
}

// AddAssign builds target += value, which subscribes a handler to an event.
func AddAssign(target Node, value any) *Assignment {
	return assign(OpAddAssign, target, value)
}

// Assign builds target = value.
func Assign(target Node, value any) *Assignment {
	return assign(OpAssign, target, value)
}

// SubAssign builds target -= value, which unsubscribes a handler from an event.
func SubAssign(target Node, value any) *Assignment {
	return assign(OpSubAssign, target, value)
}

// Kind returns KindAssign, KindAddAssign or KindSubAssign.
func (a *Assignment) Kind() Kind {
	switch a.Op {
	case OpAddAssign:
		return KindAddAssign
	case OpSubAssign:
		return KindSubAssign
	default:
		return KindAssign
	}
}

// Type returns nil; assignments are statements.
func (a *Assignment) Type() reflect.Type { return nil }

func (a *Assignment) buildError() error { return a.err }

// FieldAccess reads a struct field.
type FieldAccess struct {
	Object Node
	Name   string
	field  reflect.StructField
	err    error
}

// Field builds obj.name for a struct (or pointer to struct) valued obj.
func Field(obj Node, name string) *FieldAccess {
	access := &FieldAccess{Object: obj, Name: name}

	structType := derefType(obj.Type())
	if structType == nil || structType.Kind() != reflect.Struct {
		access.err = fmt.Errorf("%w: %s is not a struct", ErrBuild, obj)

		return access
	}

	field, ok := structType.FieldByName(name)
	if !ok {
		access.err = fmt.Errorf("%w: %s has no field %s", ErrBuild, TypeName(structType), name)

		return access
	}

	access.field = field

	return access
}

// Kind returns KindField.
func (f *FieldAccess) Kind() Kind { return KindField }

// Type returns the field type.
func (f *FieldAccess) Type() reflect.Type {
	if f.err != nil {
		return nil
	}

	return f.field.Type
}

func (f *FieldAccess) buildError() error { return f.err }

// IndexAccess reads an indexer (Name set) or an element of a map, slice, array or string (Name
// empty).
type IndexAccess struct {
	Object  Node
	Name    string
	Indexer *Indexer
	Keys    []Node
	elem    reflect.Type
	err     error
}

// Elem builds obj[key] for a map, slice, array or string.
func Elem(obj Node, key any) *IndexAccess {
	access := &IndexAccess{Object: obj}

	containerType := obj.Type()
	if containerType == nil {
		access.err = fmt.Errorf("%w: %s has no value", ErrBuild, obj)

		return access
	}

	var keyType reflect.Type

	switch containerType.Kind() { //nolint:exhaustive // other kinds are not indexable
	case reflect.Map:
		keyType, access.elem = containerType.Key(), containerType.Elem()
	case reflect.Slice, reflect.Array:
		keyType, access.elem = reflect.TypeFor[int](), containerType.Elem()
	case reflect.String:
		keyType, access.elem = reflect.TypeFor[int](), reflect.TypeFor[byte]()
	default:
		access.err = fmt.Errorf("%w: %s is not indexable", ErrBuild, TypeName(containerType))

		return access
	}

	keyNode, err := toNode(key, keyType)
	access.Keys, access.err = []Node{keyNode}, err

	return access
}

// Index builds an indexer read obj.name[keys...], backed by name(keys...) and setName(keys..., v).
func Index(obj Node, name string, keys ...any) *IndexAccess {
	access := &IndexAccess{Object: obj, Name: name}
	if obj.Type() == nil {
		access.err = fmt.Errorf("%w: %s has no value", ErrBuild, obj)

		return access
	}

	indexer := ModelOf(obj.Type()).Indexer(name)
	if indexer == nil {
		access.err = fmt.Errorf("%w: %s has no indexer %s", ErrBuild, TypeName(obj.Type()), name)

		return access
	}

	access.Indexer, access.elem = indexer, indexer.Elem
	access.Keys, access.err = toNodes(keys, indexer.Keys, false)

	return access
}

// Kind returns KindIndex.
func (i *IndexAccess) Kind() Kind { return KindIndex }

// Type returns the element type.
func (i *IndexAccess) Type() reflect.Type { return i.elem }

func (i *IndexAccess) buildError() error { return i.err }

// MethodCall invokes a method on Object.
type MethodCall struct {
	Object Node
	Method *Method
	Args   []Node
	err    error
}

// Call builds obj.name(args...). Raw Go values in args become constants converted to the parameter
// types; trailing arguments of a variadic method are packed into a slice.
func Call(obj Node, name string, args ...any) *MethodCall {
	call := &MethodCall{Object: obj}
	if obj.Type() == nil {
		call.Method = &Method{Name: name, Member: name}
		call.err = fmt.Errorf("%w: %s has no value", ErrBuild, obj)

		return call
	}

	method := ModelOf(obj.Type()).Method(name)
	if method == nil {
		call.Method = &Method{Owner: obj.Type(), Name: name, Member: name}
		call.err = fmt.Errorf("%w: %s has no method %s", ErrBuild, TypeName(obj.Type()), name)

		return call
	}

	call.Method = method
	call.Args, call.err = toNodes(args, method.Params, method.Variadic)

	return call
}

// CallMethod builds a call to an already resolved method with already converted arguments.
func CallMethod(obj Node, method *Method, args []Node) *MethodCall {
	return &MethodCall{Object: obj, Method: method, Args: append([]Node(nil), args...)}
}

// Kind returns KindCall.
func (c *MethodCall) Kind() Kind { return KindCall }

// Type returns the single result type, or nil for void and multi-result calls.
func (c *MethodCall) Type() reflect.Type {
	if c.err != nil || len(c.Method.Results) != 1 {
		return nil
	}

	return c.Method.Results[0]
}

func (c *MethodCall) buildError() error { return c.err }

// PropertyAccess reads a property, or names an event as the target of += and -=.
type PropertyAccess struct {
	Object   Node
	Name     string
	Property *Property
	Event    *Event
	err      error
}

// Prop builds obj.name for a property X() / SetX(v) or an event AddX(h) / RemoveX(h).
func Prop(obj Node, name string) *PropertyAccess {
	access := &PropertyAccess{Object: obj, Name: name}
	if obj.Type() == nil {
		access.err = fmt.Errorf("%w: %s has no value", ErrBuild, obj)

		return access
	}

	model := ModelOf(obj.Type())
	access.Property, access.Event = model.Property(name), model.Event(name)

	if access.Property == nil && access.Event == nil {
		access.err = fmt.Errorf("%w: %s has no property or event %s", ErrBuild, TypeName(obj.Type()), name)
	}

	return access
}

// Kind returns KindProperty.
func (p *PropertyAccess) Kind() Kind { return KindProperty }

// Type returns the property type, or the handler type of an event.
func (p *PropertyAccess) Type() reflect.Type {
	switch {
	case p.Property != nil:
		return p.Property.Type
	case p.Event != nil:
		return p.Event.Handler
	default:
		return nil
	}
}

func (p *PropertyAccess) buildError() error { return p.err }

// Call chains a method call.
func (c *Capture) Call(name string, args ...any) *MethodCall { return Call(c, name, args...) }

// Field chains a field read.
func (c *Capture) Field(name string) *FieldAccess { return Field(c, name) }

// Call chains a method call.
func (f *FieldAccess) Call(name string, args ...any) *MethodCall { return Call(f, name, args...) }

// Field chains a field read.
func (f *FieldAccess) Field(name string) *FieldAccess { return Field(f, name) }

// Call chains a method call.
func (i *IndexAccess) Call(name string, args ...any) *MethodCall { return Call(i, name, args...) }

// Index chains an indexer read.
func (i *IndexAccess) Index(name string, keys ...any) *IndexAccess { return Index(i, name, keys...) }

// Prop chains a property read.
func (i *IndexAccess) Prop(name string) *PropertyAccess { return Prop(i, name) }

// Call chains a method call on the result.
func (c *MethodCall) Call(name string, args ...any) *MethodCall { return Call(c, name, args...) }

// Field chains a field read on the result.
func (c *MethodCall) Field(name string) *FieldAccess { return Field(c, name) }

// Index chains an indexer read on the result.
func (c *MethodCall) Index(name string, keys ...any) *IndexAccess { return Index(c, name, keys...) }

// Prop chains a property read on the result.
func (c *MethodCall) Prop(name string) *PropertyAccess { return Prop(c, name) }

// Call chains a method call.
func (p *Parameter) Call(name string, args ...any) *MethodCall { return Call(p, name, args...) }

// Field chains a field read.
func (p *Parameter) Field(name string) *FieldAccess { return Field(p, name) }

// Index chains an indexer read.
func (p *Parameter) Index(name string, keys ...any) *IndexAccess { return Index(p, name, keys...) }

// Prop chains a property read.
func (p *Parameter) Prop(name string) *PropertyAccess { return Prop(p, name) }

// Call chains a method call on the property value.
func (p *PropertyAccess) Call(name string, args ...any) *MethodCall { return Call(p, name, args...) }

// Index chains an indexer read on the property value.
func (p *PropertyAccess) Index(name string, keys ...any) *IndexAccess { return Index(p, name, keys...) }

// Prop chains a property read on the property value.
func (p *PropertyAccess) Prop(name string) *PropertyAccess { return Prop(p, name) }

func assign(op AssignOp, target Node, value any) *Assignment {
	assignment := &Assignment{Op: op, Target: target}

	switch typed := target.(type) {
	case *PropertyAccess:
		assignment.err = checkPropertyTarget(op, typed)
	case *IndexAccess:
		if op != OpAssign {
			assignment.err = fmt.Errorf("%w: %s %s is not supported on an index", ErrBuild, target, op)
		}
	case *FieldAccess:
		if op != OpAssign {
			assignment.err = fmt.Errorf("%w: %s %s is not supported on a field", ErrBuild, target, op)
		}
	default:
		assignment.err = fmt.Errorf("%w: %s is not assignable", ErrBuild, target)
	}

	node, err := toNode(value, target.Type())
	if node == nil {
		node = Const(value)
	}

	assignment.Value = node
	if assignment.err == nil {
		assignment.err = err
	}

	return assignment
}

func checkPropertyTarget(op AssignOp, target *PropertyAccess) error {
	if op == OpAssign {
		if target.Property == nil {
			return fmt.Errorf("%w: %s is an event; use += or -=", ErrBuild, target)
		}

		return nil
	}

	if target.Event == nil {
		return fmt.Errorf("%w: %s is not an event", ErrBuild, target)
	}

	return nil
}

func derefType(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}

	return t
}
