// Package compiler implements the single-pass Pratt compiler: lexing (via
// the scanner package), recursive-descent parsing, scope resolution,
// upvalue capture analysis and bytecode emission all happen in one pass,
// with no intermediate AST, directly into a types.Chunk.
package compiler

import (
	"github.com/dolthub/swiss"
	"github.com/lumen-lang/lumen/lang/token"
	"github.com/lumen-lang/lumen/lang/types"
)

// FunctionType distinguishes the four contexts a funcCompiler can compile:
// the implicit top-level script, an ordinary function, a method, and a
// class's init method (whose implicit return value is the receiver, not
// nil).
type FunctionType uint8

const (
	TypeScript FunctionType = iota
	TypeFunction
	TypeMethod
	TypeInitializer
)

const maxLocals = 256 // bounded by the one-byte GET_LOCAL/SET_LOCAL operand

// local describes one slot in a funcCompiler's locals array. depth == -1
// means "declared but its initializer has not finished compiling yet" --
// reading such a local is an error (it would read its own initializer).
type local struct {
	name       string
	depth      int
	isCaptured bool
}

// upvalueRef records how a funcCompiler's function captures one upvalue:
// either directly from a local slot of its immediately enclosing function
// (isLocal == true) or by chaining through that enclosing function's own
// upvalue list (isLocal == false).
type upvalueRef struct {
	index   uint8
	isLocal bool
}

// classCompiler tracks the class currently being compiled, linked to any
// lexically enclosing class, so that `this` and `super` can be validated
// independently of function nesting.
type classCompiler struct {
	enclosing     *classCompiler
	hasSuperclass bool
}

// funcCompiler holds the compiler state for a single function (or the
// top-level script). Nested function/method declarations push a new
// funcCompiler linked to the one being compiled via enclosing.
type funcCompiler struct {
	p         *parser
	enclosing *funcCompiler

	fn  *types.Function
	typ FunctionType

	locals     [maxLocals]local
	localCount int
	upvalues   [maxLocals]upvalueRef
	scopeDepth int

	// class is copied from the enclosing funcCompiler and is never set to a
	// class, so it is always nil; the class being compiled is tracked in
	// parser.currentClass.
	class *classCompiler

	// stringConstants dedups constant-pool entries added via identifierConstant
	// within this function, so repeated references to the same global/property
	// name don't bloat the pool. Compiler-internal bookkeeping only: it is not
	// the spec's string intern table (that lives in the VM, over *types.String
	// object identity, not constant-pool position).
	stringConstants *swiss.Map[string, int]
}

// Compile compiles source into the implicit top-level function (a nameless,
// zero-arity Function whose Chunk is the script's body). It returns an
// ErrorList (satisfying error) if any compile-time error was reported; the
// caller must not attempt to run a Function compiled with errors.
func Compile(source string) (*types.Function, error) {
	p := newParser(source)
	fc := newFuncCompiler(p, nil, TypeScript, "")

	p.advance()
	for !p.match(token.EOF) {
		fc.declaration()
	}

	fn := fc.endFunction()
	if p.hadError {
		return nil, p.errs
	}
	return fn, nil
}

func newFuncCompiler(p *parser, enclosing *funcCompiler, typ FunctionType, name string) *funcCompiler {
	fc := &funcCompiler{
		p:               p,
		enclosing:       enclosing,
		typ:             typ,
		stringConstants: swiss.NewMap[string, int](uint32(8)),
	}
	if enclosing != nil {
		fc.class = enclosing.class
	}
	if name != "" {
		fc.fn = &types.Function{Name: types.NewString(name)}
	} else {
		fc.fn = &types.Function{}
	}

	// Slot 0 is reserved: `this` for methods/initializers, unnamed otherwise
	// (never referenceable, so the implicit top-of-stack callee/receiver
	// can't be shadowed by a user declaration).
	slotName := ""
	if typ == TypeMethod || typ == TypeInitializer {
		slotName = "this"
	}
	fc.locals[0] = local{name: slotName, depth: 0}
	fc.localCount = 1
	return fc
}

func (fc *funcCompiler) chunk() *types.Chunk { return &fc.fn.Chunk }

func (fc *funcCompiler) line() int {
	if fc.p.previous.Pos.Unknown() {
		return 0
	}
	return fc.p.previous.Pos.Line()
}

// --- emission helpers ---

func (fc *funcCompiler) emitByte(b byte) {
	fc.chunk().Write(b, fc.line())
}

func (fc *funcCompiler) emitOp(op types.OpCode) {
	fc.chunk().WriteOp(op, fc.line())
}

func (fc *funcCompiler) emitOps(op1, op2 types.OpCode) {
	fc.emitOp(op1)
	fc.emitOp(op2)
}

func (fc *funcCompiler) emitOpByte(op types.OpCode, b byte) {
	fc.emitOp(op)
	fc.emitByte(b)
}

func (fc *funcCompiler) emitReturn() {
	if fc.typ == TypeInitializer {
		fc.emitOpByte(types.OpGetLocal, 0) // return `this`
	} else {
		fc.emitOp(types.OpNil)
	}
	fc.emitOp(types.OpReturn)
}

// emitConstant adds v to the current chunk's constant pool and emits
// OP_CONSTANT referencing it; it reports a compile error if the pool would
// overflow the one-byte operand.
func (fc *funcCompiler) emitConstant(v types.Value) {
	idx := fc.makeConstant(v)
	fc.emitOpByte(types.OpConstant, idx)
}

func (fc *funcCompiler) makeConstant(v types.Value) byte {
	idx := fc.chunk().AddConstant(v)
	if idx > 255 {
		fc.p.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

// emitJump emits a jump opcode with a placeholder 16-bit big-endian operand
// and returns the offset of the first operand byte, to be back-patched by
// patchJump once the target address is known.
func (fc *funcCompiler) emitJump(op types.OpCode) int {
	fc.emitOp(op)
	fc.emitByte(0xff)
	fc.emitByte(0xff)
	return len(fc.chunk().Code) - 2
}

func (fc *funcCompiler) patchJump(offset int) {
	// -2 to adjust for the two bytes of the jump offset itself.
	jump := len(fc.chunk().Code) - offset - 2
	if jump > 0xffff {
		fc.p.error("Too much code to jump over.")
	}
	fc.chunk().Code[offset] = byte((jump >> 8) & 0xff)
	fc.chunk().Code[offset+1] = byte(jump & 0xff)
}

func (fc *funcCompiler) emitLoop(loopStart int) {
	fc.emitOp(types.OpLoop)
	offset := len(fc.chunk().Code) - loopStart + 2
	if offset > 0xffff {
		fc.p.error("Loop body too large.")
	}
	fc.emitByte(byte((offset >> 8) & 0xff))
	fc.emitByte(byte(offset & 0xff))
}

// identifierConstant adds name as a String constant (deduped within this
// function) and returns its constant-pool index.
func (fc *funcCompiler) identifierConstant(name string) byte {
	if idx, ok := fc.stringConstants.Get(name); ok {
		return byte(idx)
	}
	idx := fc.chunk().AddConstant(types.Object(types.NewString(name)))
	fc.stringConstants.Put(name, idx)
	return byte(idx)
}

func (fc *funcCompiler) endFunction() *types.Function {
	fc.emitReturn()
	return fc.fn
}
