package perceptron

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/perceptronix/perceptronix/internal/table"
	"github.com/perceptronix/perceptronix/internal/weight"
)

// getter is satisfied by pointers to either cell kind.
type getter[C any] interface {
	*C
	Get() float64
}

// denseScores sums the rows of features into one score per class index.
// Features without a row contribute nothing.
func denseScores[C any, P getter[C]](inner int, features []int, row func(int) ([]C, bool)) []float64 {
	scores := make([]float64, inner)
	for _, f := range features {
		cells, ok := row(f)
		if !ok {
			continue
		}
		for i := range cells {
			scores[i] += P(&cells[i]).Get()
		}
	}
	return scores
}

// sparseScores sums the rows of features into one score per label.
func sparseScores[C any, P getter[C]](features []int, row func(int) (map[table.Label]*C, bool)) map[table.Label]float64 {
	scores := make(map[table.Label]float64)
	for _, f := range features {
		cells, ok := row(f)
		if !ok {
			continue
		}
		for label, c := range cells {
			scores[label] += P(c).Get()
		}
	}
	return scores
}

// argmax returns the index of the highest score, the lowest index on ties,
// or -1 for no scores.
func argmax(scores []float64) int {
	if len(scores) == 0 {
		return -1
	}
	return floats.MaxIdx(scores)
}

// argmaxLabel returns the highest scoring label other than NoClass. Ties go
// to the lexicographically smallest name. NoClass is returned when no real
// label was scored.
func argmaxLabel(scores map[table.Label]float64) table.Label {
	best := table.NoClass
	var bestScore float64
	for label, score := range scores {
		if label.IsNoClass() {
			continue
		}
		if best.IsNoClass() || score > bestScore ||
			(score == bestScore && label.Name() < best.Name()) {
			best, bestScore = label, score
		}
	}
	return best
}

func sortLabels(labels []table.Label) []table.Label {
	sort.Slice(labels, func(i, j int) bool {
		return labels[i].Name() < labels[j].Name()
	})
	return labels
}

// Score returns the raw per-class scores of features. Out of range features
// are ignored.
func (p *DenseAveragedPerceptron) Score(features []int) []float64 {
	return denseScores[weight.Averaging](p.InnerSize(), features, p.table.Row)
}

// Predict returns the best class for features, or -1 if there are no classes.
func (p *DenseAveragedPerceptron) Predict(features []int) int {
	return argmax(p.Score(features))
}

// Update performs one online training step: it advances the clock, predicts,
// and on a mistake adds 1 to every feature's gold weight and subtracts 1 from
// its guessed weight. It reports whether the prediction was correct.
func (p *DenseAveragedPerceptron) Update(features []int, gold int) (bool, error) {
	if gold < 0 || gold >= p.InnerSize() {
		return false, fmt.Errorf("%w: class %d of %d", ErrOutOfRange, gold, p.InnerSize())
	}
	for _, f := range features {
		if f < 0 || f >= p.OuterSize() {
			return false, fmt.Errorf("%w: feature %d of %d", ErrOutOfRange, f, p.OuterSize())
		}
	}

	time := p.Tick()
	guess := p.Predict(features)
	if guess == gold {
		return true, nil
	}
	return false, p.reward(features, gold, guess, time)
}

// Score returns the raw per-class scores of features. Unknown features are ignored.
func (p *SparseDenseAveragedPerceptron) Score(features []int) []float64 {
	return denseScores[weight.Averaging](p.InnerSize(), features, p.table.Row)
}

// Predict returns the best class for features, or -1 if there are no classes.
func (p *SparseDenseAveragedPerceptron) Predict(features []int) int {
	return argmax(p.Score(features))
}

// Update performs one online training step. See DenseAveragedPerceptron.Update.
func (p *SparseDenseAveragedPerceptron) Update(features []int, gold int) (bool, error) {
	if gold < 0 || gold >= p.InnerSize() {
		return false, fmt.Errorf("%w: class %d of %d", ErrOutOfRange, gold, p.InnerSize())
	}

	time := p.Tick()
	guess := p.Predict(features)
	if guess == gold {
		return true, nil
	}
	return false, p.reward(features, gold, guess, time)
}

// Score returns the raw per-label scores of features.
func (p *SparseAveragedPerceptron) Score(features []int) map[table.Label]float64 {
	return sparseScores[weight.Averaging](features, p.table.Row)
}

// Predict returns the best label for features, or NoClass if none scored.
func (p *SparseAveragedPerceptron) Predict(features []int) table.Label {
	return argmaxLabel(p.Score(features))
}

// Update performs one online training step. A guess of NoClass is penalized
// like any other wrong label, which keeps the marker out of later predictions.
func (p *SparseAveragedPerceptron) Update(features []int, gold table.Label) (bool, error) {
	if gold.IsNoClass() {
		return false, ErrNoClass
	}

	time := p.Tick()
	guess := p.Predict(features)
	if guess == gold {
		return true, nil
	}
	return false, p.reward(features, gold, guess, time)
}

// Score returns the per-class scores of features.
func (m *DenseMultinomialPerceptron) Score(features []int) []float64 {
	return denseScores[weight.Weight](m.InnerSize(), features, m.table.Row)
}

// Predict returns the best class for features, or -1 if there are no classes.
func (m *DenseMultinomialPerceptron) Predict(features []int) int {
	return argmax(m.Score(features))
}

// Score returns the per-class scores of features.
func (m *SparseDenseMultinomialPerceptron) Score(features []int) []float64 {
	return denseScores[weight.Weight](m.InnerSize(), features, m.table.Row)
}

// Predict returns the best class for features, or -1 if there are no classes.
func (m *SparseDenseMultinomialPerceptron) Predict(features []int) int {
	return argmax(m.Score(features))
}

// Score returns the per-label scores of features.
func (m *SparseMultinomialPerceptron) Score(features []int) map[table.Label]float64 {
	return sparseScores[weight.Weight](features, m.table.Row)
}

// Predict returns the best label for features, or NoClass if none scored.
func (m *SparseMultinomialPerceptron) Predict(features []int) table.Label {
	return argmaxLabel(m.Score(features))
}
