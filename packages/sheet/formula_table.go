package sheet

import (
	"sort"

	"github.com/jdpolicano/excel/packages/formula"
)

// FormulaKey is the canonical text of a parsed formula. two formulas that
// differ only in spacing share a key.
type FormulaKey string

// FormulaTable stores parsed formulas once per canonical form and tracks
// which cells use each of them
type FormulaTable struct {
	keyIndex  map[FormulaKey]uint32           // canonical text -> formula ID
	trees     map[uint32]*formula.FormulaNode // formula ID -> parsed tree
	refCounts map[uint32]int                  // formula ID -> reference count

	cellsUsingFormula map[uint32]map[CellAddress]struct{} // formula ID -> cells using it
	formulaAtCell     map[CellAddress]uint32              // cell -> formula ID

	nextID uint32
}

// NewFormulaTable creates an empty formula table
func NewFormulaTable() *FormulaTable {
	return &FormulaTable{
		keyIndex:          make(map[FormulaKey]uint32),
		trees:             make(map[uint32]*formula.FormulaNode),
		refCounts:         make(map[uint32]int),
		cellsUsingFormula: make(map[uint32]map[CellAddress]struct{}),
		formulaAtCell:     make(map[CellAddress]uint32),
		nextID:            1, // 0 means no formula
	}
}

func keyOf(node *formula.FormulaNode) FormulaKey {
	if node == nil {
		return ""
	}
	return FormulaKey(node.ToString())
}

// Intern records that cell holds node and returns the formula's ID. a cell
// that held another formula is moved over.
func (ft *FormulaTable) Intern(node *formula.FormulaNode, cell CellAddress) uint32 {
	key := keyOf(node)

	id, exists := ft.keyIndex[key]
	if !exists {
		id = ft.nextID
		ft.nextID++
		ft.keyIndex[key] = id
		ft.trees[id] = node
	}

	if old, ok := ft.formulaAtCell[cell]; ok {
		if old == id {
			return id
		}
		ft.Remove(cell)
	}

	ft.refCounts[id]++
	if ft.cellsUsingFormula[id] == nil {
		ft.cellsUsingFormula[id] = make(map[CellAddress]struct{})
	}
	ft.cellsUsingFormula[id][cell] = struct{}{}
	ft.formulaAtCell[cell] = id

	return id
}

// Remove drops the formula reference held by cell. returns true when that
// was the formula's last reference and it left the table.
func (ft *FormulaTable) Remove(cell CellAddress) bool {
	id, exists := ft.formulaAtCell[cell]
	if !exists {
		return false
	}

	delete(ft.formulaAtCell, cell)
	if cells, ok := ft.cellsUsingFormula[id]; ok {
		delete(cells, cell)
		if len(cells) == 0 {
			delete(ft.cellsUsingFormula, id)
		}
	}

	ft.refCounts[id]--
	if ft.refCounts[id] > 0 {
		return false
	}

	delete(ft.keyIndex, keyOf(ft.trees[id]))
	delete(ft.trees, id)
	delete(ft.refCounts, id)
	return true
}

// Get returns the tree stored under id
func (ft *FormulaTable) Get(id uint32) (*formula.FormulaNode, bool) {
	node, exists := ft.trees[id]
	return node, exists
}

// CellsUsing returns the cells holding a formula in row-major order
func (ft *FormulaTable) CellsUsing(id uint32) []CellAddress {
	cells := ft.cellsUsingFormula[id]
	result := make([]CellAddress, 0, len(cells))
	for cell := range cells {
		result = append(result, cell)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Less(result[j]) })
	return result
}

// IDs returns every formula ID in ascending order
func (ft *FormulaTable) IDs() []uint32 {
	ids := make([]uint32, 0, len(ft.trees))
	for id := range ft.trees {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// RefCount returns the number of cells using a formula
func (ft *FormulaTable) RefCount(id uint32) int {
	return ft.refCounts[id]
}

// Count returns the number of distinct formulas
func (ft *FormulaTable) Count() int {
	return len(ft.keyIndex)
}
