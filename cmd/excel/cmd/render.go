package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jdpolicano/excel/packages/formula"
)

// renderTree writes one line per node, indented by depth. Expression, Term
// and Factor levels without an operator only pass their operand through, so
// they are folded away.
func renderTree(w io.Writer, node formula.Node) {
	renderNode(w, node, 0)
}

func renderNode(w io.Writer, node formula.Node, depth int) {
	indent := strings.Repeat("  ", depth)

	switch n := node.(type) {
	case *formula.FormulaNode:
		fmt.Fprintf(w, "%s%s %s\n", indent, NodeStyle.Render("Formula"), MutedStyle.Render(n.ToString()))
		renderNode(w, n.Expr, depth+1)

	case *formula.ExpressionNode:
		if !n.HasRhs() {
			renderNode(w, n.Lhs, depth)
			return
		}
		fmt.Fprintf(w, "%s%s %s\n", indent, NodeStyle.Render("Expression"), ValueStyle.Render(n.Op.String()))
		renderNode(w, n.Lhs, depth+1)
		renderNode(w, n.Rhs, depth+1)

	case *formula.TermNode:
		if !n.HasRhs() {
			renderNode(w, n.Lhs, depth)
			return
		}
		fmt.Fprintf(w, "%s%s %s\n", indent, NodeStyle.Render("Term"), ValueStyle.Render(n.Op.String()))
		renderNode(w, n.Lhs, depth+1)
		renderNode(w, n.Rhs, depth+1)

	case *formula.FactorNode:
		if !n.HasRhs() {
			renderPrimary(w, n.Lhs, depth)
			return
		}
		fmt.Fprintf(w, "%s%s %s\n", indent, NodeStyle.Render("Factor"), ValueStyle.Render(n.Op.String()))
		renderPrimary(w, n.Lhs, depth+1)
		renderPrimary(w, n.Rhs, depth+1)

	case *formula.PrimitiveNode:
		fmt.Fprintf(w, "%s%s %s\n", indent, NodeStyle.Render(n.Kind.String()), ValueStyle.Render(n.ToString()))

	case *formula.CellRefNode:
		fmt.Fprintf(w, "%s%s %s %s\n", indent, NodeStyle.Render("CellRef"), ValueStyle.Render(n.Ref),
			MutedStyle.Render(fmt.Sprintf("(col %d, row %d)", n.Column, n.Row)))

	case *formula.CellRangeNode:
		fmt.Fprintf(w, "%s%s %s\n", indent, NodeStyle.Render("CellRange"), ValueStyle.Render(n.ToString()))

	case *formula.FunctionNode:
		fmt.Fprintf(w, "%s%s %s %s\n", indent, NodeStyle.Render("Function"), ValueStyle.Render(n.Name),
			MutedStyle.Render(fmt.Sprintf("(%d args)", len(n.Args))))
		for _, arg := range n.Args {
			renderNode(w, arg, depth+1)
		}
	}
}

// a bracketed expression in a factor slot gets its own line so that the
// grouping stays visible
func renderPrimary(w io.Writer, node formula.Node, depth int) {
	if expr, ok := node.(*formula.ExpressionNode); ok {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), NodeStyle.Render("Group"))
		renderNode(w, expr, depth+1)
		return
	}
	renderNode(w, node, depth)
}

// renderParseError points at the failing position of input
func renderParseError(w io.Writer, input string, err error) {
	var parseErr *formula.ParseError
	if !errors.As(err, &parseErr) {
		fmt.Fprintln(w, ErrorStyle.Render(err.Error()))
		return
	}

	pos := parseErr.Pos
	if pos > len(input) {
		pos = len(input)
	}
	column := utf8.RuneCountInString(input[:pos])

	fmt.Fprintln(w, input)
	fmt.Fprintln(w, strings.Repeat(" ", column)+ErrorStyle.Render("^"))
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render(parseErr.Code.String()+":"), parseErr.Error())
}
