package types

import "fmt"

// Class is a named bag of methods, each a Closure keyed by name in an
// open-addressing Table. A subclass's method table is seeded with a copy of
// its superclass's methods at OP_INHERIT time; there is no runtime method
// resolution order walk, single inheritance is flattened at class-creation
// time.
type Class struct {
	Header
	Name    *String
	Methods *Table
}

var _ Obj = (*Class)(nil)

func NewClass(name *String) *Class {
	return &Class{Name: name, Methods: NewTable()}
}

func (c *Class) ObjKind() ObjKind { return ObjClassKind }
func (c *Class) String() string   { return c.Name.Chars }

// Instance is an instance of a Class, with its own open-addressing Table of
// fields, populated lazily as the script assigns to them.
type Instance struct {
	Header
	Class  *Class
	Fields *Table
}

var _ Obj = (*Instance)(nil)

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: NewTable()}
}

func (i *Instance) ObjKind() ObjKind { return ObjInstanceKind }
func (i *Instance) String() string   { return fmt.Sprintf("%s instance", i.Class.Name.Chars) }

// BoundMethod pairs a receiver instance with one of its class's methods,
// produced when a method is read as a property (y = x.f) rather than called
// immediately via a fused OP_INVOKE.
type BoundMethod struct {
	Header
	Receiver Value
	Method   *Closure
}

var _ Obj = (*BoundMethod)(nil)

func (b *BoundMethod) ObjKind() ObjKind { return ObjBoundMethodKind }
func (b *BoundMethod) String() string   { return fmt.Sprintf("<fn %s>", b.Method.Fn.DisplayName()) }
