package interp

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Lexer: tokenizer for cora source
// ---------------------------------------------------------------------------

// Lexer tokenizes cora source code.
type Lexer struct {
	input     string
	pos       int  // current position in input
	readPos   int  // reading position (after current char)
	ch        rune // current character
	line      int  // current line (1-based)
	lineStart int  // offset of current line start
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
	}
	l.readChar()
	return l
}

// readChar reads the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
		l.pos = l.readPos
	} else {
		r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
		l.ch = r
		l.pos = l.readPos
		l.readPos += size

		if r == '\n' {
			l.line++
			l.lineStart = l.readPos
		}
	}
}

// peekChar returns the next character without consuming it.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

// position returns the position of the current character. Columns count
// bytes from the line start.
func (l *Lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.pos - l.lineStart + 1,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	pos := l.position()

	switch {
	case l.ch == 0:
		return Token{Type: TokenEOF, Literal: "", Pos: pos}

	case l.ch == '(':
		l.readChar()
		return Token{Type: TokenLParen, Literal: "(", Pos: pos}

	case l.ch == ')':
		l.readChar()
		return Token{Type: TokenRParen, Literal: ")", Pos: pos}

	case l.ch == '"':
		return l.readString(pos)

	case l.ch == '#':
		return l.readHashToken(pos)

	case isDigit(l.ch):
		return l.readNumber(pos)

	case (l.ch == '-' || l.ch == '+') && isDigit(l.peekChar()):
		return l.readNumber(pos)

	case isSymbolChar(l.ch):
		return l.readSymbol(pos)

	default:
		ch := l.ch
		l.readChar()
		return Token{Type: TokenError, Literal: fmt.Sprintf("unexpected character %q", ch), Pos: pos}
	}
}

// skipWhitespaceAndComments skips whitespace and ; line comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == ';':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readString reads a double-quoted string with backslash escapes.
func (l *Lexer) readString(pos Position) Token {
	var b strings.Builder
	l.readChar() // consume opening quote

	for l.ch != '"' {
		if l.ch == 0 {
			return Token{Type: TokenError, Literal: "unterminated string", Pos: pos}
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '0':
				b.WriteByte(0)
			case '\\', '"':
				b.WriteRune(l.ch)
			case 0:
				return Token{Type: TokenError, Literal: "unterminated string", Pos: pos}
			default:
				return Token{Type: TokenError, Literal: fmt.Sprintf("unknown escape \\%c", l.ch), Pos: pos}
			}
			l.readChar()
			continue
		}
		b.WriteRune(l.ch)
		l.readChar()
	}
	l.readChar() // consume closing quote

	return Token{Type: TokenString, Literal: b.String(), Pos: pos}
}

// readHashToken reads a #\ character literal.
func (l *Lexer) readHashToken(pos Position) Token {
	l.readChar() // consume #
	if l.ch != '\\' {
		return Token{Type: TokenError, Literal: "expected \\ after #", Pos: pos}
	}
	l.readChar() // consume backslash
	if l.ch == 0 {
		return Token{Type: TokenError, Literal: "unterminated character literal", Pos: pos}
	}

	// A run of letters may be a named character; a single char is itself.
	first := l.ch
	l.readChar()
	if !isLetter(first) {
		return Token{Type: TokenChar, Literal: string(first), Pos: pos}
	}
	name := string(first)
	for isLetter(l.ch) {
		name += string(l.ch)
		l.readChar()
	}
	if len(name) == 1 {
		return Token{Type: TokenChar, Literal: name, Pos: pos}
	}
	if r, ok := namedChars[name]; ok {
		return Token{Type: TokenChar, Literal: string(r), Pos: pos}
	}
	return Token{Type: TokenError, Literal: fmt.Sprintf("unknown character name %q", name), Pos: pos}
}

// readNumber reads an integer or float literal.
func (l *Lexer) readNumber(pos Position) Token {
	start := l.pos
	if l.ch == '-' || l.ch == '+' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}

	isFloat := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '-' || next == '+' {
			isFloat = true
			l.readChar()
			if l.ch == '-' || l.ch == '+' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	literal := l.input[start:l.pos]
	if isFloat {
		return Token{Type: TokenFloat, Literal: literal, Pos: pos}
	}
	return Token{Type: TokenInt, Literal: literal, Pos: pos}
}

// readSymbol reads a symbol: identifier, dotted name, or operator.
func (l *Lexer) readSymbol(pos Position) Token {
	start := l.pos
	for isSymbolChar(l.ch) {
		l.readChar()
	}
	return Token{Type: TokenSymbol, Literal: l.input[start:l.pos], Pos: pos}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
