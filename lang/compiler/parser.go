package compiler

import (
	"github.com/lumen-lang/lumen/lang/scanner"
	"github.com/lumen-lang/lumen/lang/token"
)

// parser drives the scanner one token at a time and implements the
// panic-mode error recovery protocol: the first error in a statement is
// reported, subsequent cascading errors are suppressed until synchronize()
// finds the next statement boundary.
type parser struct {
	src string
	sc  *scanner.Scanner

	current  token.Val
	previous token.Val

	hadError  bool
	panicMode bool
	errs      ErrorList

	currentClass *classCompiler
}

func newParser(src string) *parser {
	return &parser{src: src, sc: scanner.New(src)}
}

func (p *parser) advance() {
	p.previous = p.current
	for {
		p.current = p.sc.Scan()
		if p.current.Tok != token.ILLEGAL {
			break
		}
		p.errorAtCurrent(p.current.Msg)
	}
}

func (p *parser) check(tok token.Token) bool { return p.current.Tok == tok }

func (p *parser) match(tok token.Token) bool {
	if !p.check(tok) {
		return false
	}
	p.advance()
	return true
}

func (p *parser) consume(tok token.Token, msg string) {
	if p.current.Tok == tok {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

func (p *parser) lexeme(v token.Val) string { return v.Lexeme(p.src) }

func (p *parser) errorAtCurrent(msg string) { p.errorAt(p.current, msg) }
func (p *parser) error(msg string)          { p.errorAt(p.previous, msg) }

func (p *parser) errorAt(v token.Val, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true

	where := ""
	switch v.Tok {
	case token.EOF:
		where = " at end"
	case token.ILLEGAL:
		// the scanner's own message is self-sufficient
	default:
		where = " at '" + p.lexeme(v) + "'"
	}
	p.errs = append(p.errs, &Error{Line: v.Pos.Line(), Where: where, Message: msg})
}

// synchronize skips tokens until it reaches a likely statement boundary,
// clearing panic mode so that subsequent errors are reported again.
func (p *parser) synchronize() {
	p.panicMode = false

	for p.current.Tok != token.EOF {
		if p.previous.Tok == token.SEMICOLON {
			return
		}
		switch p.current.Tok {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}
