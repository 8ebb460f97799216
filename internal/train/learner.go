package train

import (
	"errors"
	"fmt"

	"github.com/perceptronix/perceptronix/internal/perceptron"
	"github.com/perceptronix/perceptronix/internal/table"
)

// Variant names a storage layout.
type Variant string

// Supported variants.
const (
	VariantDense       Variant = "dense"
	VariantSparseDense Variant = "sparse-dense"
	VariantSparse      Variant = "sparse"
)

// ErrUnknownVariant is returned for a variant name that is not supported.
var ErrUnknownVariant = errors.New("unknown variant")

// ErrUnknownLabel is returned when an example's label is not one of the classes.
var ErrUnknownLabel = errors.New("unknown label")

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantDense, VariantSparseDense, VariantSparse:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// Learner is an accumulator that learns from labelled examples.
type Learner interface {
	// Learn performs one training step and reports whether ex was predicted correctly.
	Learn(ex Example) (bool, error)
	// Finalize averages the accumulated weights into a model.
	Finalize() (perceptron.Model, error)
	Variant() Variant
}

// Predictor maps features to a label name.
type Predictor interface {
	PredictLabel(features []int) string
}

// NewLearner creates an empty accumulator of the given variant.
//
// outer is the feature count for dense learners and a capacity hint
// otherwise. classes fixes the class order of dense and sparse/dense learners.
func NewLearner(variant Variant, outer int, classes []string) (Learner, error) {
	if outer < 0 {
		return nil, fmt.Errorf("negative feature count %d", outer)
	}
	index := indexClasses(classes)
	switch variant {
	case VariantDense:
		return &denseLearner{
			avg:   perceptron.NewDenseAveragedPerceptron(outer, len(classes)),
			index: index,
		}, nil
	case VariantSparseDense:
		return &sparseDenseLearner{
			avg:   perceptron.NewSparseDenseAveragedPerceptron(outer, len(classes)),
			index: index,
		}, nil
	case VariantSparse:
		return &sparseLearner{
			avg: perceptron.NewSparseAveragedPerceptron(outer, len(classes)),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
}

func indexClasses(classes []string) map[string]int {
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return index
}

func classOf(index map[string]int, label string) (int, error) {
	i, ok := index[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return i, nil
}

type denseLearner struct {
	avg   *perceptron.DenseAveragedPerceptron
	index map[string]int
}

func (l *denseLearner) Learn(ex Example) (bool, error) {
	gold, err := classOf(l.index, ex.Label)
	if err != nil {
		return false, err
	}
	return l.avg.Update(ex.Features, gold)
}

func (l *denseLearner) Finalize() (perceptron.Model, error) {
	return asModel(perceptron.NewDenseMultinomialPerceptron(l.avg))
}

func (l *denseLearner) Variant() Variant { return VariantDense }

type sparseDenseLearner struct {
	avg   *perceptron.SparseDenseAveragedPerceptron
	index map[string]int
}

func (l *sparseDenseLearner) Learn(ex Example) (bool, error) {
	gold, err := classOf(l.index, ex.Label)
	if err != nil {
		return false, err
	}
	return l.avg.Update(ex.Features, gold)
}

func (l *sparseDenseLearner) Finalize() (perceptron.Model, error) {
	return asModel(perceptron.NewSparseDenseMultinomialPerceptron(l.avg))
}

func (l *sparseDenseLearner) Variant() Variant { return VariantSparseDense }

type sparseLearner struct {
	avg *perceptron.SparseAveragedPerceptron
}

func (l *sparseLearner) Learn(ex Example) (bool, error) {
	return l.avg.Update(ex.Features, table.NewLabel(ex.Label))
}

func (l *sparseLearner) Finalize() (perceptron.Model, error) {
	return asModel(perceptron.NewSparseMultinomialPerceptron(l.avg))
}

func (l *sparseLearner) Variant() Variant { return VariantSparse }

func asModel[M perceptron.Model](m M, err error) (perceptron.Model, error) {
	if err != nil {
		return nil, err
	}
	return m, nil
}

// NewPredictor wraps a finalized model. classes maps class indices of dense
// and sparse/dense models back to names; it is ignored for sparse models.
func NewPredictor(m perceptron.Model, classes []string) (Predictor, error) {
	switch m := m.(type) {
	case *perceptron.DenseMultinomialPerceptron:
		if len(classes) != m.InnerSize() {
			return nil, fmt.Errorf("model has %d classes, metadata names %d", m.InnerSize(), len(classes))
		}
		return indexPredictor{predict: m.Predict, classes: classes}, nil
	case *perceptron.SparseDenseMultinomialPerceptron:
		if len(classes) != m.InnerSize() {
			return nil, fmt.Errorf("model has %d classes, metadata names %d", m.InnerSize(), len(classes))
		}
		return indexPredictor{predict: m.Predict, classes: classes}, nil
	case *perceptron.SparseMultinomialPerceptron:
		return labelPredictor{m: m}, nil
	default:
		return nil, fmt.Errorf("%w: %T", perceptron.ErrUnknownModel, m)
	}
}

type indexPredictor struct {
	predict func([]int) int
	classes []string
}

func (p indexPredictor) PredictLabel(features []int) string {
	i := p.predict(features)
	if i < 0 {
		return ""
	}
	return p.classes[i]
}

type labelPredictor struct {
	m *perceptron.SparseMultinomialPerceptron
}

func (p labelPredictor) PredictLabel(features []int) string {
	return p.m.Predict(features).Name()
}
