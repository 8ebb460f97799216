package table

import "sort"

// Sparse is a table keyed by arbitrary outer ints whose rows map Label to cell.
//
// Like SparseDense, rows and cells are created only by writes. InnerSize is
// the configured number of classes and is not tied to the labels present.
type Sparse[C any] struct {
	rows  map[int]map[Label]*C
	inner int
}

// NewSparse creates an empty table. outer is a capacity hint only.
func NewSparse[C any](outer, inner int) *Sparse[C] {
	return &Sparse[C]{
		rows:  make(map[int]map[Label]*C, max(outer, 0)),
		inner: inner,
	}
}

// OuterSize returns the number of existing rows.
func (t *Sparse[C]) OuterSize() int {
	return len(t.rows)
}

// InnerSize returns the configured number of classes.
func (t *Sparse[C]) InnerSize() int {
	return t.inner
}

// Has reports whether a row exists for outer.
func (t *Sparse[C]) Has(outer int) bool {
	_, ok := t.rows[outer]
	return ok
}

// Row returns the row for outer without creating it.
//
// The returned map is owned by the table and must not be modified.
func (t *Sparse[C]) Row(outer int) (map[Label]*C, bool) {
	row, ok := t.rows[outer]
	return row, ok
}

// Touch returns the row for outer, creating an empty row if missing.
func (t *Sparse[C]) Touch(outer int) map[Label]*C {
	row, ok := t.rows[outer]
	if !ok {
		row = make(map[Label]*C)
		t.rows[outer] = row
	}
	return row
}

// InRange always reports true: any outer key and label may be created.
func (t *Sparse[C]) InRange(int, Label) bool {
	return true
}

// Cell returns a pointer to the cell at (outer, label), creating the row and
// the cell if missing.
func (t *Sparse[C]) Cell(outer int, label Label) *C {
	row := t.Touch(outer)
	c, ok := row[label]
	if !ok {
		c = new(C)
		row[label] = c
	}
	return c
}

// Lookup returns a copy of the cell at (outer, label) without creating anything.
func (t *Sparse[C]) Lookup(outer int, label Label) (C, bool) {
	if row, ok := t.rows[outer]; ok {
		if c, ok := row[label]; ok {
			return *c, true
		}
	}
	var zero C
	return zero, false
}

// Keys returns the existing outer keys in ascending order.
func (t *Sparse[C]) Keys() []int {
	keys := make([]int, 0, len(t.rows))
	for k := range t.rows {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Range calls fn for each row in ascending key order until fn returns false.
func (t *Sparse[C]) Range(fn func(outer int, row map[Label]*C) bool) {
	for _, k := range t.Keys() {
		if !fn(k, t.rows[k]) {
			return
		}
	}
}

// SortedLabels returns the labels of row in ascending name order, NoClass first.
func SortedLabels[C any](row map[Label]*C) []Label {
	labels := make([]Label, 0, len(row))
	for l := range row {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		return labels[i].name < labels[j].name
	})
	return labels
}
