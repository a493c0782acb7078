package compiler

import (
	"strconv"

	"github.com/lumen-lang/lumen/lang/token"
	"github.com/lumen-lang/lumen/lang/types"
)

func (fc *funcCompiler) expression() {
	fc.parsePrecedence(precAssignment)
}

// parsePrecedence is the core of the Pratt parser: it runs the prefix rule
// for the current token, then repeatedly runs infix rules as long as the
// next token's precedence binds at least as tightly as minPrec.
func (fc *funcCompiler) parsePrecedence(minPrec precedence) {
	p := fc.p
	p.advance()
	prefix := getRule(p.previous.Tok).prefix
	if prefix == nil {
		p.error("Expect expression.")
		return
	}

	canAssign := minPrec <= precAssignment
	prefix(fc, canAssign)

	for minPrec <= getRule(p.current.Tok).precedence {
		p.advance()
		infix := getRule(p.previous.Tok).infix
		infix(fc, canAssign)
	}

	if canAssign && p.match(token.EQ) {
		p.error("Invalid assignment target.")
	}
}

func (fc *funcCompiler) grouping(_ bool) {
	fc.expression()
	fc.p.consume(token.RPAREN, "Expect ')' after expression.")
}

func (fc *funcCompiler) number(_ bool) {
	v := fc.p.lexeme(fc.p.previous)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		fc.p.error("Invalid number literal.")
		return
	}
	fc.emitConstant(types.Number(f))
}

func (fc *funcCompiler) string(_ bool) {
	lex := fc.p.lexeme(fc.p.previous)
	s := lex[1 : len(lex)-1] // strip the surrounding quotes
	fc.emitConstant(types.Object(types.NewString(s)))
}

func (fc *funcCompiler) literal(_ bool) {
	switch fc.p.previous.Tok {
	case token.FALSE:
		fc.emitOp(types.OpFalse)
	case token.TRUE:
		fc.emitOp(types.OpTrue)
	case token.NIL:
		fc.emitOp(types.OpNil)
	}
}

func (fc *funcCompiler) unary(_ bool) {
	opTok := fc.p.previous.Tok
	fc.parsePrecedence(precUnary)
	switch opTok {
	case token.BANG:
		fc.emitOp(types.OpNot)
	case token.MINUS:
		fc.emitOp(types.OpNegate)
	}
}

func (fc *funcCompiler) binary(_ bool) {
	opTok := fc.p.previous.Tok
	rule := getRule(opTok)
	fc.parsePrecedence(rule.precedence + 1)

	switch opTok {
	case token.BANG_EQ:
		fc.emitOp(types.OpNotEqual)
	case token.EQ_EQ:
		fc.emitOp(types.OpEqual)
	case token.GT:
		fc.emitOp(types.OpGreater)
	case token.GT_EQ:
		fc.emitOp(types.OpLess)
		fc.emitOp(types.OpNot)
	case token.LT:
		fc.emitOp(types.OpLess)
	case token.LT_EQ:
		fc.emitOp(types.OpGreater)
		fc.emitOp(types.OpNot)
	case token.PLUS:
		fc.emitOp(types.OpAdd)
	case token.MINUS:
		fc.emitOp(types.OpSubtract)
	case token.STAR:
		fc.emitOp(types.OpMultiply)
	case token.SLASH:
		fc.emitOp(types.OpDivide)
	}
}

func (fc *funcCompiler) and_(_ bool) {
	endJump := fc.emitJump(types.OpJumpIfFalse)
	fc.emitOp(types.OpPop)
	fc.parsePrecedence(precAnd)
	fc.patchJump(endJump)
}

func (fc *funcCompiler) or_(_ bool) {
	elseJump := fc.emitJump(types.OpJumpIfFalse)
	endJump := fc.emitJump(types.OpJump)

	fc.patchJump(elseJump)
	fc.emitOp(types.OpPop)

	fc.parsePrecedence(precOr)
	fc.patchJump(endJump)
}

func (fc *funcCompiler) call(_ bool) {
	argCount := fc.argumentList()
	fc.emitOpByte(types.OpCall, argCount)
}

func (fc *funcCompiler) argumentList() byte {
	var count int
	if !fc.p.check(token.RPAREN) {
		for {
			fc.expression()
			if count == 255 {
				fc.p.error("Can't have more than 255 arguments.")
			}
			count++
			if !fc.p.match(token.COMMA) {
				break
			}
		}
	}
	fc.p.consume(token.RPAREN, "Expect ')' after arguments.")
	return byte(count)
}

func (fc *funcCompiler) dot(canAssign bool) {
	fc.p.consume(token.IDENT, "Expect property name after '.'.")
	name := fc.identifierConstant(fc.p.lexeme(fc.p.previous))

	switch {
	case canAssign && fc.p.match(token.EQ):
		fc.expression()
		fc.emitOpByte(types.OpSetProperty, name)
	case fc.p.match(token.LPAREN):
		argCount := fc.argumentList()
		fc.emitOpByte(types.OpInvoke, name)
		fc.emitByte(argCount)
	default:
		fc.emitOpByte(types.OpGetProperty, name)
	}
}

func (fc *funcCompiler) variable(canAssign bool) {
	fc.namedVariable(fc.p.lexeme(fc.p.previous), canAssign)
}

func (fc *funcCompiler) namedVariable(name string, canAssign bool) {
	var getOp, setOp types.OpCode
	arg := fc.resolveLocal(name)
	switch {
	case arg != -1:
		getOp, setOp = types.OpGetLocal, types.OpSetLocal
	default:
		if up := fc.resolveUpvalue(name); up != -1 {
			arg = up
			getOp, setOp = types.OpGetUpvalue, types.OpSetUpvalue
		} else {
			arg = int(fc.identifierConstant(name))
			getOp, setOp = types.OpGetGlobal, types.OpSetGlobal
		}
	}

	if canAssign && fc.p.match(token.EQ) {
		fc.expression()
		fc.emitOpByte(setOp, byte(arg))
	} else {
		fc.emitOpByte(getOp, byte(arg))
	}
}

func (fc *funcCompiler) this_(_ bool) {
	if fc.p.currentClass == nil {
		fc.p.error("Can't use 'this' outside of a class.")
		return
	}
	fc.variable(false)
}

func (fc *funcCompiler) super_(_ bool) {
	switch {
	case fc.p.currentClass == nil:
		fc.p.error("Can't use 'super' outside of a class.")
	case !fc.p.currentClass.hasSuperclass:
		fc.p.error("Can't use 'super' in a class with no superclass.")
	}

	fc.p.consume(token.DOT, "Expect '.' after 'super'.")
	fc.p.consume(token.IDENT, "Expect superclass method name.")
	name := fc.identifierConstant(fc.p.lexeme(fc.p.previous))

	fc.namedVariable("this", false)
	if fc.p.match(token.LPAREN) {
		argCount := fc.argumentList()
		fc.namedVariable("super", false)
		fc.emitOpByte(types.OpSuperInvoke, name)
		fc.emitByte(argCount)
	} else {
		fc.namedVariable("super", false)
		fc.emitOpByte(types.OpGetSuper, name)
	}
}
