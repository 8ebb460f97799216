package table

import "sort"

// SparseDense is a table keyed by arbitrary outer ints with dense inner rows.
//
// Rows come into existence on the first write (Cell or Touch). Reads of a
// missing row see zero cells and leave OuterSize unchanged.
type SparseDense[C any] struct {
	rows  map[int][]C
	inner int
}

// NewSparseDense creates an empty table. outer is a capacity hint only.
func NewSparseDense[C any](outer, inner int) *SparseDense[C] {
	return &SparseDense[C]{
		rows:  make(map[int][]C, max(outer, 0)),
		inner: inner,
	}
}

// OuterSize returns the number of existing rows.
func (t *SparseDense[C]) OuterSize() int {
	return len(t.rows)
}

// InnerSize returns the number of cells per row.
func (t *SparseDense[C]) InnerSize() int {
	return t.inner
}

// Has reports whether a row exists for outer.
func (t *SparseDense[C]) Has(outer int) bool {
	_, ok := t.rows[outer]
	return ok
}

// Row returns the row for outer without creating it.
func (t *SparseDense[C]) Row(outer int) ([]C, bool) {
	row, ok := t.rows[outer]
	return row, ok
}

// Touch returns the row for outer, creating an all-zero row if missing.
func (t *SparseDense[C]) Touch(outer int) []C {
	row, ok := t.rows[outer]
	if !ok {
		row = make([]C, t.inner)
		t.rows[outer] = row
	}
	return row
}

// InRange reports whether inner is a valid index. Every outer key is valid.
func (t *SparseDense[C]) InRange(_, inner int) bool {
	return inner >= 0 && inner < t.inner
}

// Cell returns a pointer to the cell at (outer, inner), creating the row if missing.
//
// It panics if inner is out of range.
func (t *SparseDense[C]) Cell(outer, inner int) *C {
	return &t.Touch(outer)[inner]
}

// Lookup returns a copy of the cell at (outer, inner) without creating the row.
func (t *SparseDense[C]) Lookup(outer, inner int) (C, bool) {
	row, ok := t.rows[outer]
	if !ok || inner < 0 || inner >= len(row) {
		var zero C
		return zero, false
	}
	return row[inner], true
}

// Keys returns the existing outer keys in ascending order.
func (t *SparseDense[C]) Keys() []int {
	keys := make([]int, 0, len(t.rows))
	for k := range t.rows {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Range calls fn for each row in ascending key order until fn returns false.
func (t *SparseDense[C]) Range(fn func(outer int, row []C) bool) {
	for _, k := range t.Keys() {
		if !fn(k, t.rows[k]) {
			return
		}
	}
}
