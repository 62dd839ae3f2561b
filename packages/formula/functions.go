package formula

import "sort"

// FunctionSet is the allow-list of function names a formula may call.
// names are case-sensitive.
type FunctionSet map[string]struct{}

// NewFunctionSet creates a set from the given names
func NewFunctionSet(names ...string) FunctionSet {
	set := make(FunctionSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Contains reports whether name is a recognized function
func (fs FunctionSet) Contains(name string) bool {
	_, ok := fs[name]
	return ok
}

// Names returns the recognized names in sorted order
func (fs FunctionSet) Names() []string {
	names := make([]string, 0, len(fs))
	for name := range fs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
