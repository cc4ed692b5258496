package interp

import "testing"

func lexAll(input string) []Token {
	l := NewLexer(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == TokenEOF || tok.Type == TokenError {
			return toks
		}
	}
}

func TestLexerTokens(t *testing.T) {
	tests := []struct {
		input string
		want  []TokenType
	}{
		{"", []TokenType{TokenEOF}},
		{"42", []TokenType{TokenInt, TokenEOF}},
		{"-7 +3", []TokenType{TokenInt, TokenInt, TokenEOF}},
		{"3.14 1e10 1.5e-3", []TokenType{TokenFloat, TokenFloat, TokenFloat, TokenEOF}},
		{`"hi"`, []TokenType{TokenString, TokenEOF}},
		{`#\a`, []TokenType{TokenChar, TokenEOF}},
		{`#\newline`, []TokenType{TokenChar, TokenEOF}},
		{"foo std.append + <=", []TokenType{TokenSymbol, TokenSymbol, TokenSymbol, TokenSymbol, TokenEOF}},
		{"(+ 1 2)", []TokenType{TokenLParen, TokenSymbol, TokenInt, TokenInt, TokenRParen, TokenEOF}},
		{"; comment\n42", []TokenType{TokenInt, TokenEOF}},
	}

	for _, tt := range tests {
		toks := lexAll(tt.input)
		if len(toks) != len(tt.want) {
			t.Errorf("%q: got %d tokens %v, want %d", tt.input, len(toks), toks, len(tt.want))
			continue
		}
		for i, want := range tt.want {
			if toks[i].Type != want {
				t.Errorf("%q: token %d = %s, want %s", tt.input, i, toks[i].Type, want)
			}
		}
	}
}

func TestLexerLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"a\nb"`, "a\nb"},
		{`"esc \" quote"`, `esc " quote`},
		{`#\x`, "x"},
		{`#\space`, " "},
		{`#\tab`, "\t"},
		{"-12", "-12"},
	}
	for _, tt := range tests {
		tok := NewLexer(tt.input).NextToken()
		if tok.Type == TokenError {
			t.Errorf("%q: lex error %s", tt.input, tok.Literal)
			continue
		}
		if tok.Literal != tt.want {
			t.Errorf("%q: literal %q, want %q", tt.input, tok.Literal, tt.want)
		}
	}
}

func TestLexerErrors(t *testing.T) {
	inputs := []string{
		`"unterminated`,
		`#\`,
		`#x`,
		`#\bogusname`,
		`"bad \q escape"`,
	}
	for _, input := range inputs {
		toks := lexAll(input)
		last := toks[len(toks)-1]
		if last.Type != TokenError {
			t.Errorf("%q: expected lex error, got %v", input, toks)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	l := NewLexer("a\n  bb")
	first := l.NextToken()
	second := l.NextToken()
	if first.Pos.Line != 1 || first.Pos.Column != 1 {
		t.Errorf("first token at %d:%d, want 1:1", first.Pos.Line, first.Pos.Column)
	}
	if second.Pos.Line != 2 || second.Pos.Column != 3 {
		t.Errorf("second token at %d:%d, want 2:3", second.Pos.Line, second.Pos.Column)
	}
}
