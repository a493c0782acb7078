package types

import "fmt"

// Function is a compiled function: its arity, how many upvalues it closes
// over, and the chunk of bytecode implementing its body. Top-level script
// code is also represented as a nameless Function with arity 0.
type Function struct {
	Header
	Arity        int
	UpvalueCount int
	Chunk        Chunk
	Name         *String // nil for the top-level script
}

var _ Obj = (*Function)(nil)

func (f *Function) ObjKind() ObjKind { return ObjFunctionKind }

func (f *Function) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}

// DisplayName returns the function's name, or "script" for the top-level
// function, as used in stack traces.
func (f *Function) DisplayName() string {
	if f.Name == nil {
		return "script"
	}
	return f.Name.Chars
}
