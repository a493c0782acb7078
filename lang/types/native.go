package types

import "fmt"

// NativeFn is the signature of a native (built-in) function: it receives its
// positional arguments and returns a result or an error, which the VM turns
// into a runtime error.
type NativeFn func(args []Value) (Value, error)

// Native wraps a Go function so it can be called like any other Callable
// value from the language.
type Native struct {
	Header
	Name string
	Fn   NativeFn
}

var _ Obj = (*Native)(nil)

func (n *Native) ObjKind() ObjKind { return ObjNativeKind }
func (n *Native) String() string   { return fmt.Sprintf("<native fn %s>", n.Name) }
