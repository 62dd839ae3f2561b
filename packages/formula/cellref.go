package formula

import (
	"fmt"
	"strconv"
	"strings"
)

// worksheet limits, XFD1048576 is the last addressable cell
const (
	MaxColumns = 16384
	MaxRows    = 1048576
)

// IsCellRef checks if a string is a cell reference (e.g., A1, AZ99): one or
// more letters followed by one or more digits and nothing else
func IsCellRef(s string) bool {
	if len(s) < 2 {
		return false
	}

	// find where letters end and numbers begin
	letterEnd := 0
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			break
		}
		letterEnd = i + 1
	}

	// must have at least one letter and one digit
	if letterEnd == 0 || letterEnd == len(s) {
		return false
	}

	return isDigits(s[letterEnd:])
}

// ParseCellRef parses a reference like "B12" into a CellRefNode. the
// column is 0-based (A=0, Z=25, AA=26), the row is kept as written.
// references past XFD or MaxRows are rejected.
func ParseCellRef(s string) (*CellRefNode, error) {
	if !IsCellRef(s) {
		return nil, fmt.Errorf("invalid cell reference: %s", s)
	}

	letterEnd := 0
	for letterEnd < len(s) && isLetter(s[letterEnd]) {
		letterEnd++
	}

	col, err := ColumnIndex(s[:letterEnd])
	if err != nil {
		return nil, err
	}

	// the shape check leaves only digits, so Atoi fails on range alone
	row, err := strconv.Atoi(s[letterEnd:])
	if err != nil || row > MaxRows {
		return nil, fmt.Errorf("row out of range: %s", s[letterEnd:])
	}

	return &CellRefNode{
		Ref:      s,
		Column:   col,
		Row:      row,
		Position: NodePosition{Start: 0, End: len(s)},
	}, nil
}

// ParseCellRange parses "A1:C3" into a CellRangeNode. ranges have no place
// in the formula grammar yet, this is the only way to build one.
func ParseCellRange(s string) (*CellRangeNode, error) {
	lexer := NewLexer(s)

	start, err := rangeCorner(lexer)
	if err != nil {
		return nil, err
	}

	if tok := lexer.Next(); tok.Type != TokenRangeDelimiter {
		if tok.Type == TokenEOF {
			return nil, NewUnexpectedEndOfFile(tok.Pos)
		}
		return nil, NewUnexpectedToken(TokenRangeDelimiter.String(), tok, tok.Pos)
	}

	end, err := rangeCorner(lexer)
	if err != nil {
		return nil, err
	}

	if tok := lexer.Next(); tok.Type != TokenEOF {
		return nil, NewUnexpectedToken(TokenEOF.String(), tok, tok.Pos)
	}

	return &CellRangeNode{
		Start:    start,
		End:      end,
		Position: NodePosition{Start: start.Position.Start, End: end.Position.End},
	}, nil
}

func rangeCorner(lexer *Lexer) (*CellRefNode, error) {
	tok := lexer.Next()
	switch tok.Type {
	case TokenText:
	case TokenEOF:
		return nil, NewUnexpectedEndOfFile(tok.Pos)
	default:
		return nil, NewUnexpectedToken(TokenText.String(), tok, tok.Pos)
	}

	ref, err := ParseCellRef(tok.Value)
	if err != nil {
		return nil, NewInvalidExpression(err.Error(), tok.Pos)
	}
	ref.Position = NodePosition{Start: tok.Pos, End: tok.Pos + len(tok.Value)}
	return ref, nil
}

// ColumnIndex converts column letters to a 0-based index (A=0, AA=26)
func ColumnIndex(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("empty column")
	}

	col := 0
	for _, ch := range strings.ToUpper(letters) {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column: %s", letters)
		}
		col = col*26 + int(ch-'A'+1)
		if col > MaxColumns {
			return 0, fmt.Errorf("column out of range: %s", letters)
		}
	}
	return col - 1, nil
}

// ColumnName converts a 0-based column index back to letters
func ColumnName(col int) string {
	var name []byte
	for col >= 0 {
		name = append([]byte{byte('A' + col%26)}, name...)
		col = col/26 - 1
	}
	return string(name)
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
