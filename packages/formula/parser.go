package formula

import (
	"strings"
)

// Parser is a recursive-descent parser over the token stream of a single
// formula. every level of the grammar accepts at most one trailing
// operator:
//
//	formula    := '=' expression EOF
//	expression := term ( ('+'|'-') term )?
//	term       := factor ( ('+'|'-') factor )?
//	factor     := primary ( ('*'|'/') primary )?
//	primary    := text-literal | quoted-string | '(' expression ')'
type Parser struct {
	input     string
	lexer     *Lexer
	functions FunctionSet
	offset    int // byte offset of the lexed body within input
}

// NewParser creates a parser for the full formula text, leading '='
// included
func NewParser(input string, functions FunctionSet) *Parser {
	return &Parser{
		input:     input,
		functions: functions,
	}
}

// Parse parses formula text such as =SUM(A1,B1) into a tree. the first
// problem found aborts the parse and is returned as a *ParseError.
func Parse(input string, functions FunctionSet) (*FormulaNode, error) {
	return NewParser(input, functions).Parse()
}

// Parse runs the parser over its input
func (p *Parser) Parse() (*FormulaNode, error) {
	if !strings.HasPrefix(p.input, string(charEqual)) {
		return nil, NewInvalidExpression("formula must start with '='", 0)
	}
	p.offset = 1
	p.lexer = NewLexer(p.input[1:])

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if err := p.expect(TokenEOF); err != nil {
		return nil, err
	}

	return &FormulaNode{
		Expr:     expr,
		Position: NodePosition{Start: 0, End: len(p.input)},
	}, nil
}

// parseExpression handles a term optionally followed by + or - and one
// more term
func (p *Parser) parseExpression() (*ExpressionNode, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	node := &ExpressionNode{Lhs: lhs, Position: lhs.Position}
	op, ok := p.acceptOperator(OpAdd, OpSubtract)
	if !ok {
		return node, nil
	}

	rhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	node.Op = op
	node.Rhs = rhs
	node.Position.End = rhs.Position.End
	return node, nil
}

// parseTerm handles a factor optionally followed by + or - and one more
// factor
func (p *Parser) parseTerm() (*TermNode, error) {
	lhs, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	node := &TermNode{Lhs: lhs, Position: lhs.Position}
	op, ok := p.acceptOperator(OpAdd, OpSubtract)
	if !ok {
		return node, nil
	}

	rhs, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	node.Op = op
	node.Rhs = rhs
	node.Position.End = rhs.Position.End
	return node, nil
}

// parseFactor handles a primary optionally followed by * or / and one more
// primary
func (p *Parser) parseFactor() (*FactorNode, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	node := &FactorNode{Lhs: lhs, Position: lhs.GetPosition()}
	op, ok := p.acceptOperator(OpMultiply, OpDivide)
	if !ok {
		return node, nil
	}

	rhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	node.Op = op
	node.Rhs = rhs
	node.Position.End = rhs.GetPosition().End
	return node, nil
}

// acceptOperator consumes the next token if it is one of the given
// operators
func (p *Parser) acceptOperator(ops ...Operator) (Operator, bool) {
	tok := p.lexer.Peek()
	if tok.Type != TokenOperator {
		return OpNone, false
	}
	for _, op := range ops {
		if tok.Value[0] == byte(op) {
			p.lexer.Next()
			return op, true
		}
	}
	return OpNone, false
}

// parsePrimary handles literals, references, function calls and
// parentheses
func (p *Parser) parsePrimary() (Node, error) {
	tok := p.lexer.Next()

	switch tok.Type {
	case TokenText:
		return p.parseText(tok)

	case TokenTextQualifier:
		return p.parseString(tok)

	case TokenOpenBracket:
		node, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenCloseBracket); err != nil {
			return nil, err
		}
		return node, nil

	case TokenEOF:
		return nil, NewUnexpectedEndOfFile(p.pos(tok))

	default:
		return nil, NewInvalidExpression("unexpected "+tok.String(), p.pos(tok))
	}
}

// parseText resolves a text run: number, boolean, cell reference, then
// function call
func (p *Parser) parseText(tok Token) (Node, error) {
	position := NodePosition{Start: p.pos(tok), End: p.pos(tok) + len(tok.Value)}

	if isDigits(tok.Value) {
		return &PrimitiveNode{Kind: PrimitiveNumber, Value: tok.Value, Position: position}, nil
	}

	if tok.Value == "TRUE" || tok.Value == "FALSE" {
		return &PrimitiveNode{Kind: PrimitiveBoolean, Value: tok.Value, Position: position}, nil
	}

	if IsCellRef(tok.Value) {
		ref, err := ParseCellRef(tok.Value)
		if err != nil {
			return nil, NewInvalidExpression(err.Error(), position.Start)
		}
		ref.Position = position
		return ref, nil
	}

	return p.parseFunctionCall(tok)
}

// parseFunctionCall parses NAME(arg, ...) for a name in the function set
func (p *Parser) parseFunctionCall(nameTok Token) (Node, error) {
	startPos := p.pos(nameTok)
	if !p.functions.Contains(nameTok.Value) {
		return nil, NewInvalidExpression("unknown literal or function "+nameTok.Value, startPos)
	}

	// nothing has been opened yet, so running out of input here is a
	// missing bracket rather than an unterminated one
	if tok := p.lexer.Next(); tok.Type != TokenOpenBracket {
		return nil, NewUnexpectedToken(TokenOpenBracket.String(), tok, p.pos(tok))
	}

	args := []*ExpressionNode{}

	// check for empty argument list
	if tok := p.lexer.Peek(); tok.Type == TokenCloseBracket {
		p.lexer.Next()
		return &FunctionNode{
			Name:     nameTok.Value,
			Args:     args,
			Position: NodePosition{Start: startPos, End: p.pos(tok) + 1},
		}, nil
	}

	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		tok := p.lexer.Next()
		switch tok.Type {
		case TokenComma:
			continue
		case TokenCloseBracket:
			return &FunctionNode{
				Name:     nameTok.Value,
				Args:     args,
				Position: NodePosition{Start: startPos, End: p.pos(tok) + 1},
			}, nil
		case TokenEOF:
			return nil, NewUnexpectedEndOfFile(p.pos(tok))
		default:
			// a range delimiter lands here: arguments are expressions, and
			// expressions have no production for A1:B2
			return nil, NewUnexpectedToken("Comma or CloseBracket", tok, p.pos(tok))
		}
	}
}

// parseString accumulates a quoted literal. two qualifiers back to back
// stand for one literal quote.
func (p *Parser) parseString(open Token) (Node, error) {
	var value strings.Builder

	for {
		tok := p.lexer.Next()
		switch tok.Type {
		case TokenText:
			value.WriteString(tok.Space)
			value.WriteString(tok.Value)

		case TokenTextQualifier:
			value.WriteString(tok.Space)
			// only an adjacent qualifier escapes, "a" "b" is two literals
			if next := p.lexer.Peek(); next.Type == TokenTextQualifier && next.Space == "" {
				p.lexer.Next()
				value.WriteByte(charQuote)
				continue
			}
			return &PrimitiveNode{
				Kind:     PrimitiveString,
				Value:    value.String(),
				Position: NodePosition{Start: p.pos(open), End: p.pos(tok) + 1},
			}, nil

		case TokenEOF:
			return nil, NewUnexpectedEndOfFile(p.pos(tok))

		default:
			return nil, NewInvalidExpression("unexpected "+tok.String()+" in string literal", p.pos(tok))
		}
	}
}

// expect consumes one token and checks its kind. payloads are not
// compared.
func (p *Parser) expect(want TokenType) error {
	tok := p.lexer.Next()
	if tok.Type == want {
		return nil
	}
	if tok.Type == TokenEOF {
		return NewUnexpectedEndOfFile(p.pos(tok))
	}
	return NewUnexpectedToken(want.String(), tok, p.pos(tok))
}

// pos maps a token position back onto the full formula text
func (p *Parser) pos(tok Token) int {
	return p.offset + tok.Pos
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
