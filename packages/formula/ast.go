package formula

import (
	"iter"
	"slices"
	"strconv"
	"strings"
)

// NodePosition is the byte span of a node in the formula text, '=' included
type NodePosition struct {
	Start int
	End   int
}

// Node is a node of the formula AST. the set of implementations is closed,
// consumers switch on the concrete type.
type Node interface {
	GetPosition() NodePosition
	ToString() string
	node()
}

// Operator is the arithmetic operator of an Expression, Term or Factor.
// OpNone marks a node without a right-hand side.
type Operator byte

const (
	OpNone     Operator = 0
	OpAdd      Operator = '+'
	OpSubtract Operator = '-'
	OpMultiply Operator = '*'
	OpDivide   Operator = '/'
)

func (o Operator) String() string {
	if o == OpNone {
		return ""
	}
	return string(rune(o))
}

// PrimitiveKind tells which literal class a PrimitiveNode holds
type PrimitiveKind int

const (
	PrimitiveNumber PrimitiveKind = iota
	PrimitiveBoolean
	PrimitiveString
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveNumber:
		return "Number"
	case PrimitiveBoolean:
		return "Boolean"
	case PrimitiveString:
		return "String"
	default:
		return "Unknown"
	}
}

// FormulaNode is the root of every parsed formula
type FormulaNode struct {
	Expr     *ExpressionNode
	Position NodePosition
}

func (n *FormulaNode) GetPosition() NodePosition { return n.Position }

func (n *FormulaNode) ToString() string {
	return "=" + n.Expr.ToString()
}

func (*FormulaNode) node() {}

// ExpressionNode is the lowest precedence level. Op and Rhs are both set or
// both unset.
type ExpressionNode struct {
	Lhs      *TermNode
	Op       Operator
	Rhs      *TermNode
	Position NodePosition
}

func (n *ExpressionNode) GetPosition() NodePosition { return n.Position }

func (n *ExpressionNode) ToString() string {
	if !n.HasRhs() {
		return n.Lhs.ToString()
	}
	return n.Lhs.ToString() + n.Op.String() + n.Rhs.ToString()
}

// HasRhs reports whether an operator followed the left operand
func (n *ExpressionNode) HasRhs() bool {
	return n.Op != OpNone && n.Rhs != nil
}

func (*ExpressionNode) node() {}

// TermNode is the intermediate precedence level (+ and -)
type TermNode struct {
	Lhs      *FactorNode
	Op       Operator
	Rhs      *FactorNode
	Position NodePosition
}

func (n *TermNode) GetPosition() NodePosition { return n.Position }

func (n *TermNode) ToString() string {
	if !n.HasRhs() {
		return n.Lhs.ToString()
	}
	return n.Lhs.ToString() + n.Op.String() + n.Rhs.ToString()
}

// HasRhs reports whether an operator followed the left operand
func (n *TermNode) HasRhs() bool {
	return n.Op != OpNone && n.Rhs != nil
}

func (*TermNode) node() {}

// FactorNode is the highest precedence level (* and /) over primaries
type FactorNode struct {
	Lhs      Node
	Op       Operator
	Rhs      Node
	Position NodePosition
}

func (n *FactorNode) GetPosition() NodePosition { return n.Position }

func (n *FactorNode) ToString() string {
	if !n.HasRhs() {
		return primaryString(n.Lhs)
	}
	return primaryString(n.Lhs) + n.Op.String() + primaryString(n.Rhs)
}

// HasRhs reports whether an operator followed the left operand
func (n *FactorNode) HasRhs() bool {
	return n.Op != OpNone && n.Rhs != nil
}

func (*FactorNode) node() {}

// a bracketed sub-expression sits in a factor slot as a bare ExpressionNode
func primaryString(n Node) string {
	if expr, ok := n.(*ExpressionNode); ok {
		return "(" + expr.ToString() + ")"
	}
	return n.ToString()
}

// PrimitiveNode is a numeric, boolean or string literal. string values are
// already unescaped.
type PrimitiveNode struct {
	Kind     PrimitiveKind
	Value    string
	Position NodePosition
}

func (n *PrimitiveNode) GetPosition() NodePosition { return n.Position }

func (n *PrimitiveNode) ToString() string {
	if n.Kind == PrimitiveString {
		// escape quotes in string
		return `"` + strings.ReplaceAll(n.Value, `"`, `""`) + `"`
	}
	return n.Value
}

func (*PrimitiveNode) node() {}

// CellRefNode is a validated column+row reference such as B12
type CellRefNode struct {
	Ref      string
	Column   int // 0-based, A=0
	Row      int // 1-based, as written
	Position NodePosition
}

func (n *CellRefNode) GetPosition() NodePosition { return n.Position }

func (n *CellRefNode) ToString() string { return n.Ref }

func (*CellRefNode) node() {}

// CellRangeNode is a rectangular span bounded by two cell references
type CellRangeNode struct {
	Start    *CellRefNode
	End      *CellRefNode
	Position NodePosition
}

func (n *CellRangeNode) GetPosition() NodePosition { return n.Position }

func (n *CellRangeNode) ToString() string {
	return n.Start.ToString() + ":" + n.End.ToString()
}

// Iterate returns an iterator over the references in the range, row by
// row. the corners may be given in any order.
func (n *CellRangeNode) Iterate() iter.Seq[string] {
	minCol, maxCol := min(n.Start.Column, n.End.Column), max(n.Start.Column, n.End.Column)
	minRow, maxRow := min(n.Start.Row, n.End.Row), max(n.Start.Row, n.End.Row)

	return func(yield func(string) bool) {
		for row := minRow; row <= maxRow; row++ {
			for col := minCol; col <= maxCol; col++ {
				if !yield(ColumnName(col) + strconv.Itoa(row)) {
					return
				}
			}
		}
	}
}

// Cells expands the range into its references
func (n *CellRangeNode) Cells() []string {
	return slices.Collect(n.Iterate())
}

func (*CellRangeNode) node() {}

// FunctionNode is a call to a recognized function name
type FunctionNode struct {
	Name     string
	Args     []*ExpressionNode
	Position NodePosition
}

func (n *FunctionNode) GetPosition() NodePosition { return n.Position }

func (n *FunctionNode) ToString() string {
	args := make([]string, len(n.Args))
	for i, arg := range n.Args {
		args[i] = arg.ToString()
	}
	return n.Name + "(" + strings.Join(args, ",") + ")"
}

func (*FunctionNode) node() {}

// Walk visits node and its descendants depth first, in source order. when fn
// returns false the children of that node are skipped.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *FormulaNode:
		Walk(n.Expr, fn)
	case *ExpressionNode:
		Walk(n.Lhs, fn)
		if n.HasRhs() {
			Walk(n.Rhs, fn)
		}
	case *TermNode:
		Walk(n.Lhs, fn)
		if n.HasRhs() {
			Walk(n.Rhs, fn)
		}
	case *FactorNode:
		Walk(n.Lhs, fn)
		if n.HasRhs() {
			Walk(n.Rhs, fn)
		}
	case *CellRangeNode:
		Walk(n.Start, fn)
		Walk(n.End, fn)
	case *FunctionNode:
		for _, arg := range n.Args {
			Walk(arg, fn)
		}
	}
}
