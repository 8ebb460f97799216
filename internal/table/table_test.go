package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cell struct {
	v float64
}

func TestDense(t *testing.T) {
	tbl := NewDense[cell](4, 3)
	assert.Equal(t, 4, tbl.OuterSize())
	assert.Equal(t, 3, tbl.InnerSize())

	tbl.Cell(2, 1).v = 7
	got, ok := tbl.Lookup(2, 1)
	require.True(t, ok)
	assert.Equal(t, 7.0, got.v)

	// Rows do not alias each other.
	row, ok := tbl.Row(1)
	require.True(t, ok)
	assert.Equal(t, []cell{{}, {}, {}}, row)

	_, ok = tbl.Lookup(4, 0)
	assert.False(t, ok)
	_, ok = tbl.Lookup(0, 3)
	assert.False(t, ok)
	_, ok = tbl.Row(-1)
	assert.False(t, ok)

	assert.Panics(t, func() { tbl.Cell(0, 3) })
}

func TestDense_Range(t *testing.T) {
	tbl := NewDense[cell](3, 2)
	var seen []int
	tbl.Range(func(outer int, row []cell) bool {
		assert.Len(t, row, 2)
		seen = append(seen, outer)
		return outer < 1
	})
	assert.Equal(t, []int{0, 1}, seen)
}

// TestSparseDense_CreateOnWrite checks that reads never create rows.
func TestSparseDense_CreateOnWrite(t *testing.T) {
	tbl := NewSparseDense[cell](0, 3)

	_, ok := tbl.Row(5)
	assert.False(t, ok)
	got, ok := tbl.Lookup(5, 1)
	assert.False(t, ok)
	assert.Equal(t, 0.0, got.v)
	assert.Equal(t, 0, tbl.OuterSize())

	tbl.Cell(5, 1).v = 2
	assert.Equal(t, 1, tbl.OuterSize())
	row, ok := tbl.Row(5)
	require.True(t, ok)
	assert.Equal(t, []cell{{}, {v: 2}, {}}, row)

	tbl.Touch(-3)
	assert.True(t, tbl.Has(-3))
	assert.Equal(t, []int{-3, 5}, tbl.Keys())
	assert.Equal(t, 2, tbl.OuterSize())
}

func TestSparse_CreateOnWrite(t *testing.T) {
	tbl := NewSparse[cell](0, 2)
	noun := NewLabel("NOUN")

	_, ok := tbl.Lookup(1, noun)
	assert.False(t, ok)
	assert.Equal(t, 0, tbl.OuterSize())

	tbl.Cell(1, noun).v = 1.5
	tbl.Cell(1, NoClass).v = -1
	assert.Equal(t, 1, tbl.OuterSize())
	assert.Equal(t, 2, tbl.InnerSize())

	got, ok := tbl.Lookup(1, noun)
	require.True(t, ok)
	assert.Equal(t, 1.5, got.v)

	row, ok := tbl.Row(1)
	require.True(t, ok)
	assert.Equal(t, []Label{NoClass, noun}, SortedLabels(row))

	tbl.Touch(9)
	assert.Equal(t, []int{1, 9}, tbl.Keys())
	row, _ = tbl.Row(9)
	assert.Empty(t, row)
}

func TestLabel(t *testing.T) {
	assert.True(t, NewLabel("").IsNoClass())
	assert.Equal(t, NoClass, NewLabel(""))
	assert.False(t, NewLabel("VERB").IsNoClass())
	assert.Equal(t, "VERB", NewLabel("VERB").Name())
	assert.Equal(t, "<no-class>", NoClass.String())
}
