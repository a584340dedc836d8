// Package hashcons provides a small generic interning table. Callers supply
// a structural key; the table returns a stable handle such that two calls
// with equal keys return the identical handle. This is what lets downstream
// code treat pointer identity as value identity for positions and
// qualifiers (spec.md §3, §4.1).
package hashcons

// Table interns values of type V keyed by a structural key K. K must be
// comparable so it can back a Go map directly, and that map is the entire
// mechanism: equality and hashing both come from Go's native map
// implementation. The table is owned exclusively by one generator run
// (spec.md §5) and is not safe for concurrent use.
type Table[K comparable, V any] struct {
	entries map[K]*V
}

// New creates an empty interning table.
func New[K comparable, V any]() *Table[K, V] {
	return &Table[K, V]{entries: make(map[K]*V)}
}

// Intern returns the existing handle for key if one was previously stored,
// or calls make, stores its result, and returns that. The returned pointer
// is stable for the lifetime of the table: repeated Intern calls with an
// equal key always return the same pointer.
func (t *Table[K, V]) Intern(key K, make func() V) *V {
	if v, ok := t.entries[key]; ok {
		return v
	}
	v := make()
	t.entries[key] = &v
	return &v
}

// Len reports the number of distinct handles currently interned.
func (t *Table[K, V]) Len() int {
	return len(t.entries)
}
