package formula

// TokenType represents the different kinds of tokens in a formula
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenOpenBracket
	TokenCloseBracket
	TokenRangeDelimiter
	TokenTextQualifier
	TokenComma
	TokenOperator
	TokenText
)

// String returns the name used for the token type in parse errors
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "EndOfFile"
	case TokenOpenBracket:
		return "OpenBracket"
	case TokenCloseBracket:
		return "CloseBracket"
	case TokenRangeDelimiter:
		return "RangeDelimiter"
	case TokenTextQualifier:
		return "TextQualifier"
	case TokenComma:
		return "Comma"
	case TokenOperator:
		return "Operator"
	case TokenText:
		return "Text"
	default:
		return "Unknown"
	}
}

// character classification constants. slightly easier to read.
const (
	charSpace    = ' '
	charQuote    = '"'
	charLParen   = '('
	charRParen   = ')'
	charAsterisk = '*'
	charPlus     = '+'
	charComma    = ','
	charMinus    = '-'
	charSlash    = '/'
	charColon    = ':'
	charEqual    = '='
)

// Token represents a lexical token with position information. Value and
// Space are substrings of the lexed input, so a token never outlives the
// text it came from.
type Token struct {
	Type  TokenType
	Value string // operator character or text run
	Pos   int    // byte position in input
	Space string // whitespace skipped right before the token
}

// String describes the token for diagnostics
func (t Token) String() string {
	switch t.Type {
	case TokenOperator:
		return "Operator(" + t.Value + ")"
	case TokenText:
		return "Text(" + t.Value + ")"
	default:
		return t.Type.String()
	}
}

// Lexer is a pull-based tokenizer over a formula body (the text after the
// leading '='). It never fails: characters that don't break a text run are
// folded into one.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Next consumes and returns the next token. once the input is exhausted
// every call returns TokenEOF.
func (l *Lexer) Next() Token {
	space := l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos, Space: space}
	}

	startPos := l.pos
	ch := l.input[l.pos]

	switch ch {
	case charPlus, charMinus, charAsterisk, charSlash:
		l.pos++
		return Token{Type: TokenOperator, Value: l.input[startPos:l.pos], Pos: startPos, Space: space}
	case charLParen:
		l.pos++
		return Token{Type: TokenOpenBracket, Value: "(", Pos: startPos, Space: space}
	case charRParen:
		l.pos++
		return Token{Type: TokenCloseBracket, Value: ")", Pos: startPos, Space: space}
	case charColon:
		l.pos++
		return Token{Type: TokenRangeDelimiter, Value: ":", Pos: startPos, Space: space}
	case charQuote:
		l.pos++
		return Token{Type: TokenTextQualifier, Value: `"`, Pos: startPos, Space: space}
	case charComma:
		l.pos++
		return Token{Type: TokenComma, Value: ",", Pos: startPos, Space: space}
	}

	return l.scanText(space)
}

// Lookahead returns the n-th upcoming token without consuming anything.
// n <= 1 peeks at the very next token.
func (l *Lexer) Lookahead(n int) Token {
	savedPos := l.pos
	defer func() { l.pos = savedPos }()

	if n < 1 {
		n = 1
	}
	var tok Token
	for i := 0; i < n; i++ {
		tok = l.Next()
	}
	return tok
}

// Peek returns the next token without consuming it
func (l *Lexer) Peek() Token {
	return l.Lookahead(1)
}

// Tokenize drains the remaining input, the final TokenEOF included
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

// Pos returns the current byte offset into the input
func (l *Lexer) Pos() int {
	return l.pos
}

func (l *Lexer) skipWhitespace() string {
	start := l.pos
	for l.pos < len(l.input) && l.input[l.pos] == charSpace {
		l.pos++
	}
	return l.input[start:l.pos]
}

// scanText scans the longest run of characters outside the breaking set.
// every breaking character is ASCII, so scanning bytes never splits a
// multi-byte rune.
func (l *Lexer) scanText(space string) Token {
	startPos := l.pos
	for l.pos < len(l.input) && !isBreaking(l.input[l.pos]) {
		l.pos++
	}
	if l.pos == startPos {
		return Token{Type: TokenEOF, Pos: l.pos, Space: space}
	}
	return Token{Type: TokenText, Value: l.input[startPos:l.pos], Pos: startPos, Space: space}
}

func isBreaking(ch byte) bool {
	switch ch {
	case charPlus, charMinus, charSlash, charAsterisk, charColon,
		charLParen, charRParen, charQuote, charComma, charSpace:
		return true
	}
	return false
}
