package types

import "fmt"

// Closure pairs a compiled Function with the array of Upvalues it has
// captured. It is the only callable representation of a user-defined
// function or method; a bare *Function is never called directly.
type Closure struct {
	Header
	Fn       *Function
	Upvalues []*Upvalue
}

var _ Obj = (*Closure)(nil)

func NewClosure(fn *Function) *Closure {
	return &Closure{Fn: fn, Upvalues: make([]*Upvalue, fn.UpvalueCount)}
}

func (c *Closure) ObjKind() ObjKind { return ObjClosureKind }
func (c *Closure) String() string   { return fmt.Sprintf("<fn %s>", c.Fn.DisplayName()) }

// Upvalue is an indirection to a Value that lives either on the VM's stack
// (open: Location points into the stack) or in the Upvalue's own Closed
// field (closed, once the referenced frame has returned). NextOpen threads
// open upvalues into the VM's sorted open-upvalue list; it is unused once
// the upvalue is closed.
type Upvalue struct {
	Header
	Location *Value
	Closed   Value
	NextOpen *Upvalue
}

var _ Obj = (*Upvalue)(nil)

func NewUpvalue(slot *Value) *Upvalue {
	return &Upvalue{Location: slot}
}

func (u *Upvalue) ObjKind() ObjKind { return ObjUpvalueKind }
func (u *Upvalue) String() string   { return "upvalue" }

// Close copies the current value at Location into Closed and rebinds
// Location to point at Closed, so the value outlives the stack slot it used
// to share.
func (u *Upvalue) Close() {
	u.Closed = *u.Location
	u.Location = &u.Closed
	u.NextOpen = nil
}
