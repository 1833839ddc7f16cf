// Package scanner implements the lexer that turns Lockhart source text into
// a restartable stream of tokens. It is an external collaborator of the
// compiler core: the compiler drives it one token at a time via Scan.
package scanner

import (
	"fmt"
	"go/scanner"
	gotoken "go/token"

	"github.com/mna/lockhart/lang/token"
)

// Error and ErrorList are reused from the standard library's go/scanner
// package: they already provide exactly the aggregation (sorted, deduplicated
// list of position-tagged messages) a lexer needs, with no Lockhart-specific
// behavior to add on top.
type (
	Error     = scanner.Error
	ErrorList = scanner.ErrorList
)

// PrintError is a utility function that prints a list of errors to w,
// one error per line, if the err parameter is an ErrorList. Otherwise it
// prints the err string.
var PrintError = scanner.PrintError

// Scanner tokenizes a single source file for the compiler to consume.
type Scanner struct {
	filename string
	src      []byte
	errh     func(pos token.Position, msg string)

	offset    int // current reading offset into src
	line      int // current line, 1-based
	lineStart int // offset of the start of the current line
}

// Init prepares the scanner to tokenize src, a file named filename (used only
// for error positions). errh, if non-nil, is called for each lexical error
// encountered; scanning continues after an error is reported.
func (s *Scanner) Init(filename string, src []byte, errh func(pos token.Position, msg string)) {
	s.filename = filename
	s.src = src
	s.errh = errh
	s.offset = 0
	s.line = 1
	s.lineStart = 0
}

func (s *Scanner) pos() token.Position {
	return token.Position{Filename: s.filename, Line: s.line, Column: s.offset - s.lineStart + 1}
}

func (s *Scanner) error(pos token.Position, format string, args ...interface{}) {
	if s.errh != nil {
		s.errh(pos, fmt.Sprintf(format, args...))
	}
}

func (s *Scanner) peek() byte {
	if s.offset >= len(s.src) {
		return 0
	}
	return s.src[s.offset]
}

func (s *Scanner) peekAt(n int) byte {
	if s.offset+n >= len(s.src) {
		return 0
	}
	return s.src[s.offset+n]
}

func (s *Scanner) advance() byte {
	c := s.src[s.offset]
	s.offset++
	if c == '\n' {
		s.line++
		s.lineStart = s.offset
	}
	return c
}

func (s *Scanner) atEnd() bool { return s.offset >= len(s.src) }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isAlphaNum(c byte) bool { return isAlpha(c) || isDigit(c) }

// skipSpace consumes whitespace and line comments ("// ... \n").
func (s *Scanner) skipSpace() {
	for !s.atEnd() {
		switch c := s.peek(); c {
		case ' ', '\t', '\r', '\n':
			s.advance()
		case '/':
			if s.peekAt(1) == '/' {
				for !s.atEnd() && s.peek() != '\n' {
					s.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

// Scan returns the next token, its position, and its literal text (populated
// for IDENT, NUMBER and STRING; for STRING, Lit excludes the surrounding
// quotes). Scan returns token.EOF, repeatedly, once the source is exhausted.
func (s *Scanner) Scan() (tok token.Token, pos token.Position, lit string) {
	s.skipSpace()
	pos = s.pos()
	if s.atEnd() {
		return token.EOF, pos, ""
	}

	c := s.advance()
	switch {
	case isAlpha(c):
		start := s.offset - 1
		for !s.atEnd() && isAlphaNum(s.peek()) {
			s.advance()
		}
		lit = string(s.src[start:s.offset])
		return token.Lookup(lit), pos, lit

	case isDigit(c):
		start := s.offset - 1
		for !s.atEnd() && isDigit(s.peek()) {
			s.advance()
		}
		// Lockhart numbers are integer literals parsed as float64; a
		// fractional part is not part of the grammar (spec.md §6).
		lit = string(s.src[start:s.offset])
		return token.NUMBER, pos, lit

	case c == '"':
		start := s.offset
		for !s.atEnd() && s.peek() != '"' {
			s.advance()
		}
		if s.atEnd() {
			s.error(pos, "unterminated string")
			return token.ILLEGAL, pos, string(s.src[start:s.offset])
		}
		lit = string(s.src[start:s.offset])
		s.advance() // closing quote
		return token.STRING, pos, lit
	}

	switch c {
	case '(':
		return token.LPAREN, pos, ""
	case ')':
		return token.RPAREN, pos, ""
	case '{':
		return token.LBRACE, pos, ""
	case '}':
		return token.RBRACE, pos, ""
	case ',':
		return token.COMMA, pos, ""
	case ';':
		return token.SEMI, pos, ""
	case '.':
		return token.DOT, pos, ""
	case '+':
		return token.PLUS, pos, ""
	case '-':
		return token.MINUS, pos, ""
	case '*':
		return token.STAR, pos, ""
	case '/':
		return token.SLASH, pos, ""
	case '%':
		return token.PERCENT, pos, ""
	case '<':
		if s.peek() == '=' {
			s.advance()
			return token.LE, pos, ""
		}
		return token.LT, pos, ""
	case '>':
		if s.peek() == '=' {
			s.advance()
			return token.GE, pos, ""
		}
		return token.GT, pos, ""
	case '=':
		if s.peek() == '=' {
			s.advance()
			return token.EQL, pos, ""
		}
		return token.EQ, pos, ""
	case '!':
		if s.peek() == '=' {
			s.advance()
			return token.NEQ, pos, ""
		}
		return token.BANG, pos, ""
	}

	s.error(pos, "unexpected character %q", c)
	return token.ILLEGAL, pos, string(c)
}

// ScanAll tokenizes the whole of src and returns every token (including the
// final EOF), or an ErrorList if lexical errors were encountered. Used by the
// CLI's "tokenize" diagnostic command.
func ScanAll(filename string, src []byte) ([]TokenAndPos, error) {
	var (
		s  Scanner
		el ErrorList
	)
	s.Init(filename, src, func(pos token.Position, msg string) {
		el.Add(gopos(pos), msg)
	})

	var toks []TokenAndPos
	for {
		tok, pos, lit := s.Scan()
		toks = append(toks, TokenAndPos{Token: tok, Pos: pos, Lit: lit})
		if tok == token.EOF {
			break
		}
	}
	if len(el) == 0 {
		return toks, nil
	}
	el.Sort()
	return toks, el
}

// TokenAndPos combines a scanned token with its position and literal text.
type TokenAndPos struct {
	Token token.Token
	Pos   token.Position
	Lit   string
}

func gopos(p token.Position) gotoken.Position {
	return gotoken.Position{Filename: p.Filename, Line: p.Line, Column: p.Column}
}
