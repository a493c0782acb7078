package compiler

import (
	"golang.org/x/exp/slices"

	"github.com/lumen-lang/lumen/lang/token"
	"github.com/lumen-lang/lumen/lang/types"
)

func (fc *funcCompiler) beginScope() { fc.scopeDepth++ }

func (fc *funcCompiler) endScope() {
	fc.scopeDepth--
	for fc.localCount > 0 && fc.locals[fc.localCount-1].depth > fc.scopeDepth {
		if fc.locals[fc.localCount-1].isCaptured {
			fc.emitOp(types.OpCloseUpvalue)
		} else {
			fc.emitOp(types.OpPop)
		}
		fc.localCount--
	}
}

// parseVariable consumes an identifier, declares it as a local if inside a
// scope, and returns the constant-pool index to use with OP_DEFINE_GLOBAL at
// the top level (0 for locals, whose index is meaningless).
func (fc *funcCompiler) parseVariable(errMsg string) byte {
	fc.p.consume(token.IDENT, errMsg)

	fc.declareVariable()
	if fc.scopeDepth > 0 {
		return 0
	}
	return fc.identifierConstant(fc.p.lexeme(fc.p.previous))
}

func (fc *funcCompiler) declareVariable() {
	if fc.scopeDepth == 0 {
		return
	}
	name := fc.p.lexeme(fc.p.previous)
	for i := fc.localCount - 1; i >= 0; i-- {
		l := &fc.locals[i]
		if l.depth != -1 && l.depth < fc.scopeDepth {
			break
		}
		if l.name == name {
			fc.p.error("Already a variable with this name in this scope.")
		}
	}
	fc.addLocal(name)
}

func (fc *funcCompiler) addLocal(name string) {
	if fc.localCount == maxLocals {
		fc.p.error("Too many local variables in function.")
		return
	}
	fc.locals[fc.localCount] = local{name: name, depth: -1}
	fc.localCount++
}

func (fc *funcCompiler) markInitialized() {
	if fc.scopeDepth == 0 {
		return
	}
	fc.locals[fc.localCount-1].depth = fc.scopeDepth
}

func (fc *funcCompiler) defineVariable(global byte) {
	if fc.scopeDepth > 0 {
		fc.markInitialized()
		return
	}
	fc.emitOpByte(types.OpDefineGlobal, global)
}

// resolveLocal returns the slot index of name in fc's own locals, or -1 if
// not found.
func (fc *funcCompiler) resolveLocal(name string) int {
	for i := fc.localCount - 1; i >= 0; i-- {
		l := &fc.locals[i]
		if l.name != name {
			continue
		}
		if l.depth == -1 {
			fc.p.error("Can't read local variable in its own initializer.")
		}
		return i
	}
	return -1
}

// resolveUpvalue resolves name as an upvalue of fc, recursively capturing it
// through any intermediate enclosing functions, or returns -1 if name is not
// found in any enclosing scope (making it a global reference instead).
func (fc *funcCompiler) resolveUpvalue(name string) int {
	if fc.enclosing == nil {
		return -1
	}
	if slot := fc.enclosing.resolveLocal(name); slot != -1 {
		fc.enclosing.locals[slot].isCaptured = true
		return fc.addUpvalue(uint8(slot), true)
	}
	if up := fc.enclosing.resolveUpvalue(name); up != -1 {
		return fc.addUpvalue(uint8(up), false)
	}
	return -1
}

func (fc *funcCompiler) addUpvalue(index uint8, isLocal bool) int {
	count := fc.fn.UpvalueCount
	if i := slices.IndexFunc(fc.upvalues[:count], func(ref upvalueRef) bool {
		return ref.index == index && ref.isLocal == isLocal
	}); i != -1 {
		return i
	}
	if count == maxLocals {
		fc.p.error("Too many closure variables in function.")
		return 0
	}
	fc.upvalues[count] = upvalueRef{index: index, isLocal: isLocal}
	fc.fn.UpvalueCount++
	return count
}
