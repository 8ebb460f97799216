package perceptron

import (
	"fmt"

	"github.com/perceptronix/perceptronix/internal/table"
	"github.com/perceptronix/perceptronix/internal/weight"
)

// cells is the table surface shared by the three storage layouts.
type cells[O, I comparable, C any] interface {
	OuterSize() int
	InnerSize() int
	InRange(outer O, inner I) bool
	Cell(outer O, inner I) *C
	Lookup(outer O, inner I) (C, bool)
}

// averaged holds the accumulator state common to every layout: a table of
// averaging cells and the current time.
type averaged[O, I comparable, T cells[O, I, weight.Averaging]] struct {
	table T
	time  int64
}

// OuterSize returns the outer dimension of the table.
func (p *averaged[O, I, T]) OuterSize() int {
	return p.table.OuterSize()
}

// InnerSize returns the inner dimension of the table.
func (p *averaged[O, I, T]) InnerSize() int {
	return p.table.InnerSize()
}

// Time returns the latest time seen by Set or Tick.
func (p *averaged[O, I, T]) Time() int64 {
	return p.time
}

// Tick advances the clock by one and returns the new time.
func (p *averaged[O, I, T]) Tick() int64 {
	p.time++
	return p.time
}

// Get returns the raw value of the cell at (outer, inner), or 0 if the cell
// does not exist. It never creates a cell.
func (p *averaged[O, I, T]) Get(outer O, inner I) float64 {
	c, ok := p.table.Lookup(outer, inner)
	if !ok {
		return 0
	}
	return c.Get()
}

// Set replaces the value of the cell at (outer, inner) at the given time.
//
// Set fails with ErrOutOfRange if the cell cannot exist in this layout and
// with ErrTimeRegression if time precedes the cell's last update. A time
// later than Time() advances the clock.
func (p *averaged[O, I, T]) Set(outer O, inner I, value float64, time int64) error {
	if !p.table.InRange(outer, inner) {
		return fmt.Errorf("%w: cell (%v, %v) in %d×%d table",
			ErrOutOfRange, outer, inner, p.table.OuterSize(), p.table.InnerSize())
	}
	var last int64
	if c, ok := p.table.Lookup(outer, inner); ok {
		last = c.Updated()
	}
	if time < last {
		return fmt.Errorf("%w: cell (%v, %v) updated at %d, got %d",
			ErrTimeRegression, outer, inner, last, time)
	}

	p.table.Cell(outer, inner).Set(value, time)
	if time > p.time {
		p.time = time
	}
	return nil
}

// reward moves weight from the guessed class to the gold class for every feature.
func (p *averaged[O, I, T]) reward(features []O, gold, guess I, time int64) error {
	for _, f := range features {
		if err := p.Set(f, gold, p.Get(f, gold)+1, time); err != nil {
			return err
		}
		if err := p.Set(f, guess, p.Get(f, guess)-1, time); err != nil {
			return err
		}
	}
	return nil
}

// DenseAveragedPerceptron is a training accumulator with a fixed number of
// features and classes.
type DenseAveragedPerceptron struct {
	averaged[int, int, *table.Dense[weight.Averaging]]
}

// NewDenseAveragedPerceptron creates an accumulator of outer features × inner classes.
func NewDenseAveragedPerceptron(outer, inner int) *DenseAveragedPerceptron {
	mustSizes(outer, inner)
	p := &DenseAveragedPerceptron{}
	p.table = table.NewDense[weight.Averaging](outer, inner)
	return p
}

// SparseDenseAveragedPerceptron is a training accumulator keyed by arbitrary
// feature ids with a fixed number of classes.
type SparseDenseAveragedPerceptron struct {
	averaged[int, int, *table.SparseDense[weight.Averaging]]
}

// NewSparseDenseAveragedPerceptron creates an empty accumulator with inner
// classes. outer is a capacity hint for the number of features.
func NewSparseDenseAveragedPerceptron(outer, inner int) *SparseDenseAveragedPerceptron {
	mustSizes(outer, inner)
	p := &SparseDenseAveragedPerceptron{}
	p.table = table.NewSparseDense[weight.Averaging](outer, inner)
	return p
}

// SparseAveragedPerceptron is a training accumulator keyed by arbitrary
// feature ids and class labels.
type SparseAveragedPerceptron struct {
	averaged[int, table.Label, *table.Sparse[weight.Averaging]]
}

// NewSparseAveragedPerceptron creates an empty accumulator. outer is a
// capacity hint; inner is recorded as the class count.
func NewSparseAveragedPerceptron(outer, inner int) *SparseAveragedPerceptron {
	mustSizes(outer, inner)
	p := &SparseAveragedPerceptron{}
	p.table = table.NewSparse[weight.Averaging](outer, inner)
	return p
}

func mustSizes(outer, inner int) {
	if outer < 0 || inner < 0 {
		panic(fmt.Sprintf("perceptron: negative size %d×%d", outer, inner))
	}
}
