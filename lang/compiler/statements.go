package compiler

import (
	"github.com/lumen-lang/lumen/lang/token"
	"github.com/lumen-lang/lumen/lang/types"
)

// declaration parses one top-level-or-block declaration: a class, function
// or variable declaration, or (falling through) a statement. On a compile
// error it synchronizes to the next statement boundary so one bad statement
// doesn't cascade into a wall of spurious diagnostics.
func (fc *funcCompiler) declaration() {
	p := fc.p
	switch {
	case p.match(token.CLASS):
		fc.classDeclaration()
	case p.match(token.FUN):
		fc.funDeclaration()
	case p.match(token.VAR):
		fc.varDeclaration()
	default:
		fc.statement()
	}

	if p.panicMode {
		p.synchronize()
	}
}

func (fc *funcCompiler) statement() {
	p := fc.p
	switch {
	case p.match(token.PRINT):
		fc.printStatement()
	case p.match(token.FOR):
		fc.forStatement()
	case p.match(token.IF):
		fc.ifStatement()
	case p.match(token.RETURN):
		fc.returnStatement()
	case p.match(token.WHILE):
		fc.whileStatement()
	case p.match(token.LBRACE):
		fc.beginScope()
		fc.block()
		fc.endScope()
	default:
		fc.expressionStatement()
	}
}

func (fc *funcCompiler) printStatement() {
	fc.expression()
	fc.p.consume(token.SEMICOLON, "Expect ';' after value.")
	fc.emitOp(types.OpPrint)
}

func (fc *funcCompiler) expressionStatement() {
	fc.expression()
	fc.p.consume(token.SEMICOLON, "Expect ';' after expression.")
	fc.emitOp(types.OpPop)
}

func (fc *funcCompiler) block() {
	p := fc.p
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		fc.declaration()
	}
	p.consume(token.RBRACE, "Expect '}' after block.")
}

func (fc *funcCompiler) ifStatement() {
	p := fc.p
	p.consume(token.LPAREN, "Expect '(' after 'if'.")
	fc.expression()
	p.consume(token.RPAREN, "Expect ')' after condition.")

	thenJump := fc.emitJump(types.OpJumpIfFalse)
	fc.emitOp(types.OpPop)
	fc.statement()

	elseJump := fc.emitJump(types.OpJump)
	fc.patchJump(thenJump)
	fc.emitOp(types.OpPop)

	if p.match(token.ELSE) {
		fc.statement()
	}
	fc.patchJump(elseJump)
}

func (fc *funcCompiler) whileStatement() {
	p := fc.p
	loopStart := len(fc.chunk().Code)
	p.consume(token.LPAREN, "Expect '(' after 'while'.")
	fc.expression()
	p.consume(token.RPAREN, "Expect ')' after condition.")

	exitJump := fc.emitJump(types.OpJumpIfFalse)
	fc.emitOp(types.OpPop)
	fc.statement()
	fc.emitLoop(loopStart)

	fc.patchJump(exitJump)
	fc.emitOp(types.OpPop)
}

// forStatement desugars the C-style for loop entirely into while-loop
// bytecode shapes: there is no dedicated for-loop opcode, only the same
// OP_JUMP/OP_JUMP_IF_FALSE/OP_LOOP instructions the while loop uses.
func (fc *funcCompiler) forStatement() {
	p := fc.p
	fc.beginScope()
	p.consume(token.LPAREN, "Expect '(' after 'for'.")

	switch {
	case p.match(token.SEMICOLON):
		// no initializer
	case p.match(token.VAR):
		fc.varDeclaration()
	default:
		fc.expressionStatement()
	}

	loopStart := len(fc.chunk().Code)
	exitJump := -1
	if !p.match(token.SEMICOLON) {
		fc.expression()
		p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

		exitJump = fc.emitJump(types.OpJumpIfFalse)
		fc.emitOp(types.OpPop)
	}

	if !p.match(token.RPAREN) {
		bodyJump := fc.emitJump(types.OpJump)
		incrementStart := len(fc.chunk().Code)
		fc.expression()
		fc.emitOp(types.OpPop)
		p.consume(token.RPAREN, "Expect ')' after for clauses.")

		fc.emitLoop(loopStart)
		loopStart = incrementStart
		fc.patchJump(bodyJump)
	}

	fc.statement()
	fc.emitLoop(loopStart)

	if exitJump != -1 {
		fc.patchJump(exitJump)
		fc.emitOp(types.OpPop)
	}

	fc.endScope()
}

func (fc *funcCompiler) returnStatement() {
	p := fc.p
	if fc.typ == TypeScript {
		p.error("Can't return from top-level code.")
	}
	if p.match(token.SEMICOLON) {
		fc.emitReturn()
		return
	}
	if fc.typ == TypeInitializer {
		p.error("Can't return a value from an initializer.")
	}
	fc.expression()
	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	fc.emitOp(types.OpReturn)
}

func (fc *funcCompiler) varDeclaration() {
	p := fc.p
	global := fc.parseVariable("Expect variable name.")

	if p.match(token.EQ) {
		fc.expression()
	} else {
		fc.emitOp(types.OpNil)
	}
	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	fc.defineVariable(global)
}

func (fc *funcCompiler) funDeclaration() {
	global := fc.parseVariable("Expect function name.")
	fc.markInitialized()
	fc.function(TypeFunction)
	fc.defineVariable(global)
}

// function compiles a function's parameter list and body in a fresh
// funcCompiler, then emits OP_CLOSURE in the enclosing chunk with the
// upvalue-capture descriptors the fresh compiler recorded.
func (fc *funcCompiler) function(typ FunctionType) {
	p := fc.p
	name := p.lexeme(p.previous)
	inner := newFuncCompiler(p, fc, typ, name)

	inner.beginScope()
	p.consume(token.LPAREN, "Expect '(' after function name.")
	if !p.check(token.RPAREN) {
		for {
			inner.fn.Arity++
			if inner.fn.Arity > 255 {
				p.errorAtCurrent("Can't have more than 255 parameters.")
			}
			constant := inner.parseVariable("Expect parameter name.")
			inner.defineVariable(constant)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "Expect ')' after parameters.")
	p.consume(token.LBRACE, "Expect '{' before function body.")
	inner.block()

	fn := inner.endFunction()
	idx := fc.makeConstant(types.Object(fn))
	fc.emitOpByte(types.OpClosure, idx)

	for i := 0; i < fn.UpvalueCount; i++ {
		ref := inner.upvalues[i]
		if ref.isLocal {
			fc.emitByte(1)
		} else {
			fc.emitByte(0)
		}
		fc.emitByte(ref.index)
	}
}

func (fc *funcCompiler) classDeclaration() {
	p := fc.p
	p.consume(token.IDENT, "Expect class name.")
	className := p.lexeme(p.previous)
	nameConstant := fc.identifierConstant(className)
	fc.declareVariable()

	fc.emitOpByte(types.OpClass, nameConstant)
	fc.defineVariable(nameConstant)

	cc := &classCompiler{enclosing: p.currentClass}
	p.currentClass = cc

	if p.match(token.LT) {
		p.consume(token.IDENT, "Expect superclass name.")
		fc.variable(false)

		if p.lexeme(p.previous) == className {
			p.error("A class can't inherit from itself.")
		}

		fc.beginScope()
		fc.addLocal("super")
		fc.defineVariable(0)

		fc.namedVariable(className, false)
		fc.emitOp(types.OpInherit)
		cc.hasSuperclass = true
	}

	fc.namedVariable(className, false)
	p.consume(token.LBRACE, "Expect '{' before class body.")
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		fc.method()
	}
	p.consume(token.RBRACE, "Expect '}' after class body.")
	fc.emitOp(types.OpPop) // pop the class value pushed for namedVariable above

	if cc.hasSuperclass {
		fc.endScope()
	}
	p.currentClass = cc.enclosing
}

func (fc *funcCompiler) method() {
	p := fc.p
	p.consume(token.IDENT, "Expect method name.")
	name := p.lexeme(p.previous)
	constant := fc.identifierConstant(name)

	typ := TypeMethod
	if name == "init" {
		typ = TypeInitializer
	}
	fc.function(typ)
	fc.emitOpByte(types.OpMethod, constant)
}
