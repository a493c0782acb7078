// Package types implements the value model and heap object kinds shared by
// the compiler and the virtual machine: the tagged-union Value, the eight
// heap object kinds, the bytecode Chunk, and the open-addressing Table that
// backs the string intern pool, globals, and every class's method and
// instance's field table.
//
// This package has no dependency on the compiler or machine packages, so
// that both may depend on it without an import cycle.
package types

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies which variant of the tagged union a Value holds.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindObject
)

// Value is a dynamically-typed value manipulated by the compiler's constant
// pool and the VM's stack. It is a plain tagged union, not a NaN-boxed
// 64-bit encoding: both representations are observationally equivalent per
// the language's specification, and the struct form keeps the accessors
// (Is*/As*) honest without unsafe code.
type Value struct {
	kind Kind
	num  float64 // number payload; also holds 0/1 for KindBool
	obj  Obj
}

// Nil is the singular nil value.
var Nil = Value{kind: KindNil}

// True and False are the two boolean values.
var (
	True  = Value{kind: KindBool, num: 1}
	False = Value{kind: KindBool, num: 0}
)

// Bool returns the Value for the given boolean.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Number returns the Value wrapping the given float64.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Object returns the Value wrapping the given heap object.
func Object(o Obj) Value { return Value{kind: KindObject, obj: o} }

func (v Value) IsNil() bool    { return v.kind == KindNil }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsObject() bool { return v.kind == KindObject }

// AsBool returns the value as a bool. It is the caller's responsibility to
// have checked IsBool first.
func (v Value) AsBool() bool { return v.num != 0 }

// AsNumber returns the value as a float64. It is the caller's responsibility
// to have checked IsNumber first.
func (v Value) AsNumber() float64 { return v.num }

// AsObject returns the value's heap object. It is the caller's
// responsibility to have checked IsObject first.
func (v Value) AsObject() Obj { return v.obj }

// IsObjKind reports whether the value is an object of the given kind.
func (v Value) IsObjKind(k ObjKind) bool {
	return v.kind == KindObject && v.obj.ObjKind() == k
}

// IsString reports whether the value is a String object.
func (v Value) IsString() bool { return v.IsObjKind(ObjStringKind) }

// AsString returns the value as a *String. It is the caller's
// responsibility to have checked IsString first.
func (v Value) AsString() *String { return v.obj.(*String) }

// Falsey implements the language's truthiness rule: only nil and false are
// falsey, everything else (including 0 and "") is truthy.
func (v Value) Falsey() bool {
	return v.IsNil() || (v.IsBool() && !v.AsBool())
}

// Equal implements the language's equality rule: same-type value equality
// for numbers, booleans and nil; reference equality for heap objects
// (string equality therefore degenerates to pointer equality because
// strings are interned).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool, KindNumber:
		return v.num == o.num
	case KindObject:
		return v.obj == o.obj
	default:
		return false
	}
}

// TypeName returns a short string describing the value's runtime type, used
// in error messages.
func (v Value) TypeName() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindObject:
		return v.obj.ObjKind().String()
	default:
		return "unknown"
	}
}

// String renders the value the way `print` does.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case KindNumber:
		return FormatNumber(v.num)
	case KindObject:
		return v.obj.String()
	default:
		return "<invalid value>"
	}
}

// FormatNumber renders a float64 the way the language's numbers print:
// integral values with no fractional part, everything else via strconv's
// shortest round-trippable representation.
func FormatNumber(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	if math.IsNaN(f) {
		return "nan"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// GoString implements fmt.GoStringer, used in test failure messages.
func (v Value) GoString() string {
	return fmt.Sprintf("Value{%s %s}", v.TypeName(), v.String())
}
