package interp

import "fmt"

// ---------------------------------------------------------------------------
// Token types for the cora reader
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenInt    // 42, -7
	TokenFloat  // 3.14, 1.5e10
	TokenString // "hello"
	TokenChar   // #\a, #\newline
	TokenSymbol // foo, std.append, +

	// Delimiters
	TokenLParen // (
	TokenRParen // )
)

var tokenNames = map[TokenType]string{
	TokenEOF:    "EOF",
	TokenError:  "ERROR",
	TokenInt:    "INT",
	TokenFloat:  "FLOAT",
	TokenString: "STRING",
	TokenChar:   "CHAR",
	TokenSymbol: "SYMBOL",
	TokenLParen: "(",
	TokenRParen: ")",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", t)
}

// Position represents a source location.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based line number
	Column int // 1-based column number
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string   // the raw text
	Pos     Position // start position
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	if t.Type == TokenError {
		return fmt.Sprintf("ERROR(%s)", t.Literal)
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}

// Named characters accepted after #\ in character literals.
var namedChars = map[string]rune{
	"space":   ' ',
	"newline": '\n',
	"tab":     '\t',
	"return":  '\r',
	"nul":     0,
}

// isSymbolChar reports whether r may appear in a symbol. Symbols cover
// identifiers, dotted module names, and operator names like + or <=.
func isSymbolChar(r rune) bool {
	switch r {
	case '(', ')', '"', ';', '#':
		return false
	}
	return r > ' '
}
