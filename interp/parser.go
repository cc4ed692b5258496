package interp

import (
	"fmt"
	"strconv"
)

// ---------------------------------------------------------------------------
// Parser: tokens to forms
// ---------------------------------------------------------------------------

// SyntaxError is a parse failure with its source location.
type SyntaxError struct {
	Line   int // 1-based
	Column int // 1-based
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// Parser builds forms from cora source.
type Parser struct {
	lexer    *Lexer
	curToken Token
	errors   []*SyntaxError
}

// NewParser creates a parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.next()
	return p
}

func (p *Parser) next() {
	p.curToken = p.lexer.NextToken()
}

// errorf records a parse error at the current token.
func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, &SyntaxError{
		Line:   p.curToken.Pos.Line,
		Column: p.curToken.Pos.Column,
		Msg:    fmt.Sprintf(format, args...),
	})
}

// Errors returns accumulated parse errors.
func (p *Parser) Errors() []*SyntaxError {
	return p.errors
}

// Parse consumes the whole input and returns its top-level forms.
func (p *Parser) Parse() []Node {
	var nodes []Node
	for p.curToken.Type != TokenEOF {
		n := p.parseNode()
		if n == nil {
			// Skip the offending token so errors don't loop.
			p.next()
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func (p *Parser) parseNode() Node {
	tok := p.curToken

	switch tok.Type {
	case TokenError:
		p.errorf("%s", tok.Literal)
		return nil

	case TokenRParen:
		p.errorf("unexpected )")
		return nil

	case TokenLParen:
		return p.parseForm()

	case TokenInt:
		p.next()
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.errorf("invalid integer: %s", tok.Literal)
			return nil
		}
		return &IntLit{PosVal: tok.Pos, Value: v}

	case TokenFloat:
		p.next()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.errorf("invalid float: %s", tok.Literal)
			return nil
		}
		return &FloatLit{PosVal: tok.Pos, Value: v}

	case TokenString:
		p.next()
		return &StringLit{PosVal: tok.Pos, Value: tok.Literal}

	case TokenChar:
		p.next()
		return &CharLit{PosVal: tok.Pos, Value: []rune(tok.Literal)[0]}

	case TokenSymbol:
		p.next()
		switch tok.Literal {
		case "nil":
			return &NilLit{PosVal: tok.Pos}
		case "true":
			return &BoolLit{PosVal: tok.Pos, Value: true}
		case "false":
			return &BoolLit{PosVal: tok.Pos, Value: false}
		}
		return &Symbol{PosVal: tok.Pos, Name: tok.Literal}

	default:
		p.errorf("unexpected token: %s", tok.Type)
		return nil
	}
}

// parseForm reads ( item... ).
func (p *Parser) parseForm() Node {
	start := p.curToken.Pos
	p.next() // consume (

	var items []Node
	for p.curToken.Type != TokenRParen {
		if p.curToken.Type == TokenEOF {
			p.errors = append(p.errors, &SyntaxError{
				Line:   start.Line,
				Column: start.Column,
				Msg:    "unterminated form",
			})
			return nil
		}
		n := p.parseNode()
		if n == nil {
			p.next()
			continue
		}
		items = append(items, n)
	}
	p.next() // consume )

	return &Form{PosVal: start, Items: items}
}

// Check parses source and returns the first syntax error, or nil when
// the source is well formed. Used for editor diagnostics.
func Check(source string) *SyntaxError {
	p := NewParser(source)
	p.Parse()
	if len(p.errors) > 0 {
		return p.errors[0]
	}
	return nil
}
