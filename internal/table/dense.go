// Package table implements the two-level weight tables of a multinomial perceptron.
//
// A table maps an outer key (a feature) to an inner row keyed by class. Three
// storage layouts exist:
//   - Dense: fixed outer and inner size, contiguous rows
//   - SparseDense: outer keys are arbitrary ints, rows are dense
//   - Sparse: outer keys are arbitrary ints, rows map Label to cell
//
// Tables are generic over the cell type so the same layout serves both the
// training accumulator (weight.Averaging) and the finalized model
// (weight.Weight). Sparse layouts never create rows on reads; only Cell and
// Touch create missing rows.
package table

// Dense is a table with a fixed number of outer rows, each of inner cells.
type Dense[C any] struct {
	rows  [][]C
	inner int
}

// NewDense creates a zero-initialized dense table of outer × inner cells.
func NewDense[C any](outer, inner int) *Dense[C] {
	cells := make([]C, outer*inner)
	rows := make([][]C, outer)
	for i := range rows {
		rows[i] = cells[i*inner : (i+1)*inner : (i+1)*inner]
	}
	return &Dense[C]{rows: rows, inner: inner}
}

// OuterSize returns the number of rows.
func (t *Dense[C]) OuterSize() int {
	return len(t.rows)
}

// InnerSize returns the number of cells per row.
func (t *Dense[C]) InnerSize() int {
	return t.inner
}

// Row returns the row for outer, or false if outer is out of range.
func (t *Dense[C]) Row(outer int) ([]C, bool) {
	if outer < 0 || outer >= len(t.rows) {
		return nil, false
	}
	return t.rows[outer], true
}

// InRange reports whether (outer, inner) addresses a cell of the table.
func (t *Dense[C]) InRange(outer, inner int) bool {
	return outer >= 0 && outer < len(t.rows) && inner >= 0 && inner < t.inner
}

// Cell returns a pointer to the cell at (outer, inner).
//
// It panics if either index is out of range.
func (t *Dense[C]) Cell(outer, inner int) *C {
	return &t.rows[outer][inner]
}

// Lookup returns a copy of the cell at (outer, inner), or false if out of range.
func (t *Dense[C]) Lookup(outer, inner int) (C, bool) {
	row, ok := t.Row(outer)
	if !ok || inner < 0 || inner >= len(row) {
		var zero C
		return zero, false
	}
	return row[inner], true
}

// Range calls fn for each row in index order until fn returns false.
func (t *Dense[C]) Range(fn func(outer int, row []C) bool) {
	for i, row := range t.rows {
		if !fn(i, row) {
			return
		}
	}
}
