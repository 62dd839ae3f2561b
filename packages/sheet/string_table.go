package sheet

// StringTable interns the text of string fields with reference counts
type StringTable struct {
	ids       map[string]uint32
	values    map[uint32]string
	refCounts map[uint32]int
	nextID    uint32
}

// NewStringTable creates an empty string table
func NewStringTable() *StringTable {
	return &StringTable{
		ids:       make(map[string]uint32),
		values:    make(map[uint32]string),
		refCounts: make(map[uint32]int),
		nextID:    1,
	}
}

// Intern adds s or bumps its count, returning its ID
func (st *StringTable) Intern(s string) uint32 {
	if id, exists := st.ids[s]; exists {
		st.refCounts[id]++
		return id
	}

	id := st.nextID
	st.ids[s] = id
	st.values[id] = s
	st.refCounts[id] = 1
	st.nextID++

	return id
}

// Release drops one reference. returns true when the string left the
// table.
func (st *StringTable) Release(id uint32) bool {
	s, exists := st.values[id]
	if !exists {
		return false
	}

	st.refCounts[id]--
	if st.refCounts[id] > 0 {
		return false
	}

	delete(st.ids, s)
	delete(st.values, id)
	delete(st.refCounts, id)
	return true
}

// Count returns the number of distinct strings
func (st *StringTable) Count() int {
	return len(st.ids)
}
