// Some of the scanner package is adapted from the Go source code:
// https://cs.opensource.google/go/go/+/refs/tags/go1.22.1:src/go/scanner/scanner.go
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scanner implements a position-only, character-by-character
// tokenizer for the language: it holds {start, current, line} over the
// source buffer and emits one token.Val at a time, with no intermediate
// token slice required (the compiler drives it one Scan call at a time).
package scanner

import (
	"github.com/lumen-lang/lumen/lang/token"
)

// Scanner tokenizes a single source buffer for the compiler to consume.
type Scanner struct {
	src     string
	start   int // byte offset of the token currently being scanned
	current int // byte offset of the next unread byte
	line    int
}

// New returns a Scanner ready to tokenize src, starting at line 1.
func New(src string) *Scanner {
	return &Scanner{src: src, line: 1}
}

// Scan returns the next token.Val in the source. Once it returns a Val with
// Tok == token.EOF, further calls keep returning EOF.
func (s *Scanner) Scan() token.Val {
	s.skipWhitespaceAndComments()
	s.start = s.current

	if s.atEnd() {
		return s.make(token.EOF)
	}

	c := s.advance()
	switch {
	case isAlpha(c):
		return s.identifier()
	case isDigit(c):
		return s.number()
	}

	switch c {
	case '(':
		return s.make(token.LPAREN)
	case ')':
		return s.make(token.RPAREN)
	case '{':
		return s.make(token.LBRACE)
	case '}':
		return s.make(token.RBRACE)
	case ';':
		return s.make(token.SEMICOLON)
	case ',':
		return s.make(token.COMMA)
	case '.':
		return s.make(token.DOT)
	case '-':
		return s.make(token.MINUS)
	case '+':
		return s.make(token.PLUS)
	case '/':
		return s.make(token.SLASH)
	case '*':
		return s.make(token.STAR)
	case '!':
		return s.makeEither('=', token.BANG_EQ, token.BANG)
	case '=':
		return s.makeEither('=', token.EQ_EQ, token.EQ)
	case '<':
		return s.makeEither('=', token.LT_EQ, token.LT)
	case '>':
		return s.makeEither('=', token.GT_EQ, token.GT)
	case '"':
		return s.string()
	}

	return s.errorVal("Unexpected character.")
}

func (s *Scanner) atEnd() bool { return s.current >= len(s.src) }

func (s *Scanner) advance() byte {
	c := s.src[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.src) {
		return 0
	}
	return s.src[s.current+1]
}

// match consumes the current byte if it equals want, reporting whether it
// did.
func (s *Scanner) match(want byte) bool {
	if s.atEnd() || s.src[s.current] != want {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		if s.atEnd() {
			return
		}
		switch c := s.src[s.current]; c {
		case ' ', '\r', '\t':
			s.current++
		case '\n':
			s.line++
			s.current++
		case '/':
			if s.current+1 < len(s.src) && s.src[s.current+1] == '/' {
				for !s.atEnd() && s.src[s.current] != '\n' {
					s.current++
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) identifier() token.Val {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.current++
	}
	lit := s.src[s.start:s.current]
	if kw, ok := token.Keywords[lit]; ok {
		return s.make(kw)
	}
	return s.make(token.IDENT)
}

func (s *Scanner) number() token.Val {
	for isDigit(s.peek()) {
		s.current++
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.current++ // consume the '.'
		for isDigit(s.peek()) {
			s.current++
		}
	}
	return s.make(token.NUMBER)
}

func (s *Scanner) string() token.Val {
	for !s.atEnd() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.line++
		}
		s.current++
	}
	if s.atEnd() {
		return s.errorVal("Unterminated string.")
	}
	s.current++ // closing quote
	return s.make(token.STRING)
}

func (s *Scanner) make(tok token.Token) token.Val {
	return token.Val{
		Tok:    tok,
		Start:  s.start,
		Length: s.current - s.start,
		Pos:    token.MakePos(s.line, 1),
	}
}

// makeEither returns two based on whether the next byte matches second,
// consuming it if so, otherwise one.
func (s *Scanner) makeEither(second byte, two, one token.Token) token.Val {
	if s.match(second) {
		return s.make(two)
	}
	return s.make(one)
}

func (s *Scanner) errorVal(msg string) token.Val {
	return token.Val{
		Tok: token.ILLEGAL,
		Pos: token.MakePos(s.line, 1),
		Msg: msg,
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}
