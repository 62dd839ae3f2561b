package formula

import (
	"testing"
)

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestLexerTokenStreams(t *testing.T) {
	tests := []struct {
		input  string
		types  []TokenType
		values []string
	}{
		{"+-*/", []TokenType{TokenOperator, TokenOperator, TokenOperator, TokenOperator, TokenEOF}, []string{"+", "-", "*", "/", ""}},
		{"()", []TokenType{TokenOpenBracket, TokenCloseBracket, TokenEOF}, []string{"(", ")", ""}},
		{"hello", []TokenType{TokenText, TokenEOF}, []string{"hello", ""}},
		{"(A1:B2)", []TokenType{TokenOpenBracket, TokenText, TokenRangeDelimiter, TokenText, TokenCloseBracket, TokenEOF}, []string{"(", "A1", ":", "B2", ")", ""}},
		{"SUM(A1:C1)", []TokenType{TokenText, TokenOpenBracket, TokenText, TokenRangeDelimiter, TokenText, TokenCloseBracket, TokenEOF}, []string{"SUM", "(", "A1", ":", "C1", ")", ""}},
		{`"a""b"`, []TokenType{TokenTextQualifier, TokenText, TokenTextQualifier, TokenTextQualifier, TokenText, TokenTextQualifier, TokenEOF}, []string{`"`, "a", `"`, `"`, "b", `"`, ""}},
		{"1 , 2", []TokenType{TokenText, TokenComma, TokenText, TokenEOF}, []string{"1", ",", "2", ""}},
		{"", []TokenType{TokenEOF}, []string{""}},
		{"   ", []TokenType{TokenEOF}, []string{""}},
		{"a.b#c", []TokenType{TokenText, TokenEOF}, []string{"a.b#c", ""}},
		{"世界+1", []TokenType{TokenText, TokenOperator, TokenText, TokenEOF}, []string{"世界", "+", "1", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := NewLexer(tt.input).Tokenize()
			if len(tokens) != len(tt.types) {
				t.Fatalf("got %d tokens %v, want %d", len(tokens), tokens, len(tt.types))
			}
			for i, tok := range tokens {
				if tok.Type != tt.types[i] {
					t.Errorf("token %d: got type %s, want %s", i, tok.Type, tt.types[i])
				}
				if tok.Value != tt.values[i] {
					t.Errorf("token %d: got value %q, want %q", i, tok.Value, tt.values[i])
				}
			}
		})
	}
}

func TestLexerSkipsSpaces(t *testing.T) {
	lexer := NewLexer("  A1 +  B2")

	tok := lexer.Next()
	if tok.Type != TokenText || tok.Value != "A1" || tok.Space != "  " || tok.Pos != 2 {
		t.Fatalf("unexpected first token: %+v", tok)
	}
	tok = lexer.Next()
	if tok.Type != TokenOperator || tok.Space != " " {
		t.Fatalf("unexpected operator token: %+v", tok)
	}
	tok = lexer.Next()
	if tok.Value != "B2" || tok.Space != "  " {
		t.Fatalf("unexpected last token: %+v", tok)
	}
	if tok := lexer.Next(); tok.Type != TokenEOF {
		t.Fatalf("expected EOF, got %v", tok)
	}
	if tok := lexer.Next(); tok.Type != TokenEOF {
		t.Fatalf("expected EOF to repeat, got %v", tok)
	}
}

func TestLexerLookaheadRestoresPosition(t *testing.T) {
	lexer := NewLexer("SUM(1,2)")

	if tok := lexer.Lookahead(0); tok.Value != "SUM" {
		t.Errorf("Lookahead(0) = %v, want SUM", tok)
	}
	if tok := lexer.Lookahead(1); tok.Value != "SUM" {
		t.Errorf("Lookahead(1) = %v, want SUM", tok)
	}
	if tok := lexer.Lookahead(3); tok.Value != "1" {
		t.Errorf("Lookahead(3) = %v, want 1", tok)
	}
	if tok := lexer.Lookahead(20); tok.Type != TokenEOF {
		t.Errorf("Lookahead(20) = %v, want EOF", tok)
	}
	if lexer.Pos() != 0 {
		t.Fatalf("lookahead moved the lexer to %d", lexer.Pos())
	}

	want := []TokenType{TokenText, TokenOpenBracket, TokenText, TokenComma, TokenText, TokenCloseBracket, TokenEOF}
	got := tokenTypes(lexer.Tokenize())
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stream after lookahead: got %v, want %v", got, want)
		}
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Type: TokenEOF}, "EndOfFile"},
		{Token{Type: TokenComma, Value: ","}, "Comma"},
		{Token{Type: TokenRangeDelimiter, Value: ":"}, "RangeDelimiter"},
		{Token{Type: TokenOperator, Value: "+"}, "Operator(+)"},
		{Token{Type: TokenText, Value: "A1"}, "Text(A1)"},
	}

	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.tok, got, tt.want)
		}
	}
}

func BenchmarkLexerNestedFunctions(b *testing.B) {
	input := "IF(GREATER(A1,B1),SUM(A1,B1,C1,D1),\"he said \"\"hi\"\"\")"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		lexer := NewLexer(input)
		for lexer.Next().Type != TokenEOF {
		}
	}
}
