package delimited

import (
	"unicode/utf8"
)

// TokenType identifies the kind of a delimited-text token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenValue
	TokenDelimiter
	TokenNewline
	TokenTextQualifier
	TokenWhiteSpace
	TokenEscaped
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EndOfFile"
	case TokenValue:
		return "Value"
	case TokenDelimiter:
		return "Delimiter"
	case TokenNewline:
		return "Newline"
	case TokenTextQualifier:
		return "TextQualifier"
	case TokenWhiteSpace:
		return "WhiteSpace"
	case TokenEscaped:
		return "Escaped"
	default:
		return "Unknown"
	}
}

const (
	charQuote  = '"'
	charSpace  = ' '
	charReturn = '\r'
	charLF     = '\n'
)

// Token is a slice of the source together with its kind
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// Tokenizer splits delimited text into tokens. it tracks whether it is
// inside a qualified field so that a doubled quote is only read as an
// escape where one can occur.
type Tokenizer struct {
	input     string
	pos       int
	delimiter rune
	quoted    bool
}

// NewTokenizer creates a tokenizer over src using the given field delimiter
func NewTokenizer(src string, delimiter rune) *Tokenizer {
	return &Tokenizer{input: src, delimiter: delimiter}
}

// Next returns the next token, TokenEOF once the input is exhausted
func (t *Tokenizer) Next() Token {
	if t.pos >= len(t.input) {
		return Token{Type: TokenEOF, Pos: t.pos}
	}

	start := t.pos
	ch, size := utf8.DecodeRuneInString(t.input[t.pos:])

	switch {
	case ch == charQuote:
		if t.quoted && t.at(start+1) == charQuote {
			t.pos += 2
			return Token{Type: TokenEscaped, Value: `""`, Pos: start}
		}
		t.pos++
		t.quoted = !t.quoted
		return Token{Type: TokenTextQualifier, Value: `"`, Pos: start}

	case ch == t.delimiter:
		t.pos += size
		return Token{Type: TokenDelimiter, Value: t.input[start:t.pos], Pos: start}

	case ch == charSpace:
		t.pos++
		return Token{Type: TokenWhiteSpace, Value: " ", Pos: start}

	case ch == charReturn:
		t.pos++
		if t.at(t.pos) == charLF {
			t.pos++
		}
		return Token{Type: TokenNewline, Value: t.input[start:t.pos], Pos: start}

	case ch == charLF:
		t.pos++
		return Token{Type: TokenNewline, Value: "\n", Pos: start}
	}

	for t.pos < len(t.input) {
		ch, size := utf8.DecodeRuneInString(t.input[t.pos:])
		if t.isBreaking(ch) {
			break
		}
		t.pos += size
	}
	return Token{Type: TokenValue, Value: t.input[start:t.pos], Pos: start}
}

// Tokenize drains the remaining input, the final TokenEOF included
func (t *Tokenizer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := t.Next()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

func (t *Tokenizer) at(i int) byte {
	if i >= len(t.input) {
		return 0
	}
	return t.input[i]
}

func (t *Tokenizer) isBreaking(ch rune) bool {
	return ch == t.delimiter || ch == charQuote || ch == charSpace || ch == charReturn || ch == charLF
}
