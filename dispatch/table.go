package dispatch

import (
	"sort"
)

// Table is an immutable mapping from method identity to handler. Once
// built it is safe for concurrent use without locking.
type Table struct {
	handlers map[string]Handler
	methods  []Method
}

// NewTable builds a table from the given entries. The entries map is
// copied; later mutation of it does not affect the table.
func NewTable(entries map[Method]Handler) *Table {
	t := &Table{
		handlers: make(map[string]Handler, len(entries)),
		methods:  make([]Method, 0, len(entries)),
	}
	for m, h := range entries {
		t.handlers[m.Key()] = h
		t.methods = append(t.methods, m)
	}
	sort.Slice(t.methods, func(i, j int) bool {
		return t.methods[i].Key() < t.methods[j].Key()
	})
	return t
}

// Lookup returns the handler for the method, if any.
func (t *Table) Lookup(m Method) (Handler, bool) {
	h, ok := t.handlers[m.Key()]
	return h, ok
}

// Methods returns the table's methods sorted by key.
func (t *Table) Methods() []Method {
	out := make([]Method, len(t.methods))
	copy(out, t.methods)
	return out
}

// Len returns the number of methods in the table.
func (t *Table) Len() int { return len(t.handlers) }
