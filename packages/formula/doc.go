// Package formula lexes and parses spreadsheet formulas such as
// =IF(GREATER(A1,B1),SUM(A1,B1),0) into a typed syntax tree.
//
// Parsing is a pure function of the formula text and the set of recognized
// function names. The package does not evaluate formulas.
package formula
