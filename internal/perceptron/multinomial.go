package perceptron

import (
	"github.com/perceptronix/perceptronix/internal/table"
	"github.com/perceptronix/perceptronix/internal/weight"
)

// multinomial holds the finalized weights common to every layout.
type multinomial[O, I comparable, T cells[O, I, weight.Weight]] struct {
	table T
}

// OuterSize returns the outer dimension of the table.
func (m *multinomial[O, I, T]) OuterSize() int {
	return m.table.OuterSize()
}

// InnerSize returns the inner dimension of the table.
func (m *multinomial[O, I, T]) InnerSize() int {
	return m.table.InnerSize()
}

// Get returns the weight at (outer, inner), or 0 if the cell does not exist.
func (m *multinomial[O, I, T]) Get(outer O, inner I) float64 {
	c, ok := m.table.Lookup(outer, inner)
	if !ok {
		return 0
	}
	return c.Get()
}

// DenseMultinomialPerceptron is a finalized dense model.
type DenseMultinomialPerceptron struct {
	multinomial[int, int, *table.Dense[weight.Weight]]
}

func newDenseMultinomialPerceptron(outer, inner int) *DenseMultinomialPerceptron {
	m := &DenseMultinomialPerceptron{}
	m.table = table.NewDense[weight.Weight](outer, inner)
	return m
}

// NewDenseMultinomialPerceptron finalizes an accumulator: every weight becomes
// its average at avg.Time(). The result has the same dimensions as avg.
func NewDenseMultinomialPerceptron(avg *DenseAveragedPerceptron) (*DenseMultinomialPerceptron, error) {
	time := avg.Time()
	if time <= 0 {
		return nil, ErrZeroTime
	}

	m := newDenseMultinomialPerceptron(avg.OuterSize(), avg.InnerSize())
	avg.table.Range(func(outer int, src []weight.Averaging) bool {
		dst, _ := m.table.Row(outer)
		for i := range src {
			dst[i].Set(src[i].Average(time))
		}
		return true
	})
	return m, nil
}

// SparseDenseMultinomialPerceptron is a finalized model keyed by feature id
// with dense class rows.
type SparseDenseMultinomialPerceptron struct {
	multinomial[int, int, *table.SparseDense[weight.Weight]]
}

func newSparseDenseMultinomialPerceptron(outer, inner int) *SparseDenseMultinomialPerceptron {
	m := &SparseDenseMultinomialPerceptron{}
	m.table = table.NewSparseDense[weight.Weight](outer, inner)
	return m
}

// NewSparseDenseMultinomialPerceptron finalizes an accumulator. Every feature
// row of avg is present in the result, even when all its averages are zero.
func NewSparseDenseMultinomialPerceptron(avg *SparseDenseAveragedPerceptron) (*SparseDenseMultinomialPerceptron, error) {
	time := avg.Time()
	if time <= 0 {
		return nil, ErrZeroTime
	}

	m := newSparseDenseMultinomialPerceptron(avg.OuterSize(), avg.InnerSize())
	avg.table.Range(func(outer int, src []weight.Averaging) bool {
		dst := m.table.Touch(outer)
		for i := range src {
			dst[i].Set(src[i].Average(time))
		}
		return true
	})
	return m, nil
}

// SparseMultinomialPerceptron is a finalized model keyed by feature id and
// class label.
type SparseMultinomialPerceptron struct {
	multinomial[int, table.Label, *table.Sparse[weight.Weight]]
}

func newSparseMultinomialPerceptron(outer, inner int) *SparseMultinomialPerceptron {
	m := &SparseMultinomialPerceptron{}
	m.table = table.NewSparse[weight.Weight](outer, inner)
	return m
}

// NewSparseMultinomialPerceptron finalizes an accumulator.
//
// Cells under NoClass are dropped. A feature row whose only cells were
// NoClass is kept as an empty row, so OuterSize matches avg.
func NewSparseMultinomialPerceptron(avg *SparseAveragedPerceptron) (*SparseMultinomialPerceptron, error) {
	time := avg.Time()
	if time <= 0 {
		return nil, ErrZeroTime
	}

	m := newSparseMultinomialPerceptron(avg.OuterSize(), avg.InnerSize())
	avg.table.Range(func(outer int, src map[table.Label]*weight.Averaging) bool {
		m.table.Touch(outer)
		for label, c := range src {
			if label.IsNoClass() {
				continue
			}
			m.table.Cell(outer, label).Set(c.Average(time))
		}
		return true
	})
	return m, nil
}

// Labels returns the labels present in the model in ascending name order.
func (m *SparseMultinomialPerceptron) Labels() []table.Label {
	seen := make(map[table.Label]struct{})
	m.table.Range(func(_ int, row map[table.Label]*weight.Weight) bool {
		for l := range row {
			seen[l] = struct{}{}
		}
		return true
	})
	labels := make([]table.Label, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	return sortLabels(labels)
}
