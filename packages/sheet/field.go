// Package sheet turns delimited rows into typed fields and parsed formulas.
package sheet

import (
	"math"
	"strconv"
	"strings"

	"github.com/jdpolicano/excel/packages/formula"
)

// FieldKind is the inferred type of a field
type FieldKind int

const (
	FieldInteger FieldKind = iota
	FieldFloat
	FieldString
	FieldFormula
)

func (k FieldKind) String() string {
	switch k {
	case FieldInteger:
		return "integer"
	case FieldFloat:
		return "float"
	case FieldString:
		return "string"
	case FieldFormula:
		return "formula"
	default:
		return "unknown"
	}
}

// Field is one inferred cell value. Raw always holds the text as read.
// formula fields carry either a tree or the parse error, never both.
type Field struct {
	Kind    FieldKind
	Raw     string
	Int     int32
	Float   float32
	Formula *formula.FormulaNode
	Err     error
}

// InferField classifies raw text: 32-bit integer, then float, then formula
// (leading '='), else string
func InferField(raw string, functions formula.FunctionSet) Field {
	if n, err := strconv.ParseInt(raw, 10, 32); err == nil {
		return Field{Kind: FieldInteger, Raw: raw, Int: int32(n)}
	}

	if f, err := strconv.ParseFloat(raw, 32); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Field{Kind: FieldFloat, Raw: raw, Float: float32(f)}
	}

	if strings.HasPrefix(raw, "=") {
		node, err := formula.Parse(raw, functions)
		if err != nil {
			return Field{Kind: FieldFormula, Raw: raw, Err: err}
		}
		return Field{Kind: FieldFormula, Raw: raw, Formula: node}
	}

	return Field{Kind: FieldString, Raw: raw}
}

// Valid reports whether a formula field parsed. other kinds are always valid.
func (f *Field) Valid() bool {
	return f.Err == nil
}

// String renders the field for output. numbers are normalised, parsed
// formulas are written in canonical form, everything else as read.
func (f *Field) String() string {
	switch f.Kind {
	case FieldInteger:
		return strconv.FormatInt(int64(f.Int), 10)
	case FieldFloat:
		return strconv.FormatFloat(float64(f.Float), 'g', -1, 32)
	case FieldFormula:
		if f.Formula != nil {
			return f.Formula.ToString()
		}
	}
	return f.Raw
}
