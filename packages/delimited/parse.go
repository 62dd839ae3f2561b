// Package delimited reads and writes comma separated text with quoted fields.
package delimited

import (
	"strings"
)

// Parse splits delimited text into rows of fields. inside a qualified field
// delimiters, newlines, spaces and doubled quotes are literal. outside one,
// spaces only survive between two pieces of the same field. a last row
// without a trailing newline is kept.
func Parse(src string, opts ...Option) [][]string {
	o := newOptions(opts)
	tokenizer := NewTokenizer(src, o.delimiter)

	var (
		rows        [][]string
		row         []string
		field       strings.Builder
		pending     strings.Builder // spaces outside qualifiers, not yet known to be interior
		inQualifier bool
		dirty       bool // something was read since the last row break
	)

	endField := func() {
		row = append(row, field.String())
		field.Reset()
		pending.Reset()
	}

	for {
		tok := tokenizer.Next()
		switch tok.Type {
		case TokenValue:
			if !inQualifier && field.Len() > 0 {
				field.WriteString(pending.String())
			}
			pending.Reset()
			field.WriteString(tok.Value)
			dirty = true

		case TokenWhiteSpace:
			if inQualifier {
				field.WriteString(tok.Value)
			} else {
				pending.WriteString(tok.Value)
			}
			dirty = true

		case TokenDelimiter:
			if inQualifier {
				field.WriteString(tok.Value)
			} else {
				endField()
			}
			dirty = true

		case TokenNewline:
			if inQualifier {
				field.WriteString(tok.Value)
				continue
			}
			endField()
			rows = append(rows, row)
			row = nil
			dirty = false

		case TokenTextQualifier:
			if !inQualifier && field.Len() > 0 {
				field.WriteString(pending.String())
			}
			pending.Reset()
			inQualifier = !inQualifier
			dirty = true

		case TokenEscaped:
			field.WriteByte(charQuote)

		case TokenEOF:
			if dirty {
				endField()
				rows = append(rows, row)
			}
			return rows
		}
	}
}
