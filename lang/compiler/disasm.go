package compiler

import (
	"fmt"
	"io"

	"github.com/lumen-lang/lumen/lang/types"
)

// Disassemble writes a human-readable listing of fn's chunk, and recursively
// every nested Function in its constant pool, to w, in the traditional
// "offset | line | OP_NAME operand" layout. It exists for debugging and
// for the compiler's tests; the VM never calls it.
func Disassemble(w io.Writer, fn *types.Function, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	chunk := &fn.Chunk
	for offset := 0; offset < len(chunk.Code); {
		offset = disassembleInstruction(w, chunk, offset)
	}
	for _, c := range chunk.Constants {
		if c.IsObjKind(types.ObjFunctionKind) {
			nested := c.AsObject().(*types.Function)
			Disassemble(w, nested, nested.DisplayName())
		}
	}
}

func disassembleInstruction(w io.Writer, chunk *types.Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", chunk.Lines[offset])
	}

	op := types.OpCode(chunk.Code[offset])
	switch op {
	case types.OpGetLocal, types.OpSetLocal, types.OpGetUpvalue, types.OpSetUpvalue, types.OpCall:
		return byteInstruction(w, op, chunk, offset)
	case types.OpConstant, types.OpGetGlobal, types.OpDefineGlobal, types.OpSetGlobal,
		types.OpGetProperty, types.OpSetProperty, types.OpGetSuper, types.OpClass, types.OpMethod:
		return constantInstruction(w, op, chunk, offset)
	case types.OpJump, types.OpJumpIfFalse:
		return jumpInstruction(w, op, 1, chunk, offset)
	case types.OpLoop:
		return jumpInstruction(w, op, -1, chunk, offset)
	case types.OpInvoke, types.OpSuperInvoke:
		return invokeInstruction(w, op, chunk, offset)
	case types.OpClosure:
		return closureInstruction(w, chunk, offset)
	default:
		return simpleInstruction(w, op, offset)
	}
}

func simpleInstruction(w io.Writer, op types.OpCode, offset int) int {
	fmt.Fprintln(w, op.String())
	return offset + 1
}

func byteInstruction(w io.Writer, op types.OpCode, chunk *types.Chunk, offset int) int {
	slot := chunk.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d\n", op.String(), slot)
	return offset + 2
}

func constantInstruction(w io.Writer, op types.OpCode, chunk *types.Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op.String(), idx, chunk.Constants[idx].String())
	return offset + 2
}

func jumpInstruction(w io.Writer, op types.OpCode, sign int, chunk *types.Chunk, offset int) int {
	jump := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
	fmt.Fprintf(w, "%-16s %4d -> %d\n", op.String(), offset, offset+3+sign*jump)
	return offset + 3
}

func invokeInstruction(w io.Writer, op types.OpCode, chunk *types.Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	argCount := chunk.Code[offset+2]
	fmt.Fprintf(w, "%-16s (%d args) %4d '%s'\n", op.String(), argCount, idx, chunk.Constants[idx].String())
	return offset + 3
}

// closureInstruction decodes OP_CLOSURE's variable-length tail: one
// (isLocal, index) byte pair per upvalue the closure captures.
func closureInstruction(w io.Writer, chunk *types.Chunk, offset int) int {
	offset++
	idx := chunk.Code[offset]
	offset++
	fmt.Fprintf(w, "%-16s %4d '%s'\n", types.OpClosure.String(), idx, chunk.Constants[idx].String())

	fn := chunk.Constants[idx].AsObject().(*types.Function)
	for i := 0; i < fn.UpvalueCount; i++ {
		isLocal := chunk.Code[offset]
		offset++
		index := chunk.Code[offset]
		offset++
		kind := "upvalue"
		if isLocal != 0 {
			kind = "local"
		}
		fmt.Fprintf(w, "%04d      |                     %s %d\n", offset-2, kind, index)
	}
	return offset
}
