package compiler

import "github.com/lumen-lang/lumen/lang/token"

// precedence levels, strictly ascending.
type precedence uint8

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // . ()
	precPrimary
)

// parseFn is a Pratt parser action: prefix actions take no left operand,
// infix actions consume the already-parsed left operand implicitly (it's
// already on the bytecode stack). canAssign gates whether a trailing '='
// may be consumed as part of an assignment target.
type parseFn func(c *funcCompiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

var rules [token.Count]parseRule // indexed by token.Token

func rule(tok token.Token, prefix, infix parseFn, prec precedence) {
	rules[tok] = parseRule{prefix: prefix, infix: infix, precedence: prec}
}

func init() {
	rule(token.LPAREN, (*funcCompiler).grouping, (*funcCompiler).call, precCall)
	rule(token.DOT, nil, (*funcCompiler).dot, precCall)
	rule(token.MINUS, (*funcCompiler).unary, (*funcCompiler).binary, precTerm)
	rule(token.PLUS, nil, (*funcCompiler).binary, precTerm)
	rule(token.SLASH, nil, (*funcCompiler).binary, precFactor)
	rule(token.STAR, nil, (*funcCompiler).binary, precFactor)
	rule(token.BANG, (*funcCompiler).unary, nil, precNone)
	rule(token.BANG_EQ, nil, (*funcCompiler).binary, precEquality)
	rule(token.EQ_EQ, nil, (*funcCompiler).binary, precEquality)
	rule(token.GT, nil, (*funcCompiler).binary, precComparison)
	rule(token.GT_EQ, nil, (*funcCompiler).binary, precComparison)
	rule(token.LT, nil, (*funcCompiler).binary, precComparison)
	rule(token.LT_EQ, nil, (*funcCompiler).binary, precComparison)
	rule(token.IDENT, (*funcCompiler).variable, nil, precNone)
	rule(token.STRING, (*funcCompiler).string, nil, precNone)
	rule(token.NUMBER, (*funcCompiler).number, nil, precNone)
	rule(token.AND, nil, (*funcCompiler).and_, precAnd)
	rule(token.OR, nil, (*funcCompiler).or_, precOr)
	rule(token.FALSE, (*funcCompiler).literal, nil, precNone)
	rule(token.TRUE, (*funcCompiler).literal, nil, precNone)
	rule(token.NIL, (*funcCompiler).literal, nil, precNone)
	rule(token.THIS, (*funcCompiler).this_, nil, precNone)
	rule(token.SUPER, (*funcCompiler).super_, nil, precNone)
}

func getRule(tok token.Token) *parseRule { return &rules[tok] }
