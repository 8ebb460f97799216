package perceptron

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perceptronix/perceptronix/internal/table"
)

type denseExample struct {
	features []int
	gold     int
}

func TestDenseUpdate_LearnsSeparableData(t *testing.T) {
	data := []denseExample{
		{features: []int{0, 2}, gold: 0},
		{features: []int{1, 3}, gold: 1},
	}

	avg := NewDenseAveragedPerceptron(4, 2)
	var mistakes []int
	for epoch := 0; epoch < 3; epoch++ {
		wrong := 0
		for _, ex := range data {
			ok, err := avg.Update(ex.features, ex.gold)
			require.NoError(t, err)
			if !ok {
				wrong++
			}
		}
		mistakes = append(mistakes, wrong)
	}
	assert.Equal(t, []int{1, 0, 0}, mistakes)
	assert.Equal(t, int64(6), avg.Time())

	m, err := NewDenseMultinomialPerceptron(avg)
	require.NoError(t, err)
	for _, ex := range data {
		assert.Equal(t, ex.gold, m.Predict(ex.features))
	}
}

func TestDenseUpdate_RejectsOutOfRange(t *testing.T) {
	avg := NewDenseAveragedPerceptron(4, 2)

	_, err := avg.Update([]int{4}, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = avg.Update([]int{0}, 2)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, int64(0), avg.Time(), "rejected updates must not tick")
}

func TestSparseDenseUpdate_ArbitraryFeatures(t *testing.T) {
	avg := NewSparseDenseAveragedPerceptron(0, 3)
	for i := 0; i < 4; i++ {
		_, err := avg.Update([]int{-10, 1 << 30}, 2)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, avg.OuterSize())
	assert.Equal(t, 2, avg.Predict([]int{-10}))

	_, err := avg.Update([]int{1}, 3)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestSparseUpdate_LearnsLabels(t *testing.T) {
	x, y := table.NewLabel("x"), table.NewLabel("y")

	avg := NewSparseAveragedPerceptron(0, 2)
	for epoch := 0; epoch < 2; epoch++ {
		_, err := avg.Update([]int{0}, x)
		require.NoError(t, err)
		_, err = avg.Update([]int{1}, y)
		require.NoError(t, err)
	}

	_, err := avg.Update([]int{0}, table.NoClass)
	require.ErrorIs(t, err, ErrNoClass)

	m, err := NewSparseMultinomialPerceptron(avg)
	require.NoError(t, err)
	assert.Equal(t, x, m.Predict([]int{0}))
	assert.Equal(t, y, m.Predict([]int{1}))
	assert.Equal(t, table.NoClass, m.Predict([]int{99}))
	assert.Equal(t, []table.Label{x, y}, m.Labels())
}

func TestScore_IgnoresUnknownFeatures(t *testing.T) {
	avg := NewDenseAveragedPerceptron(2, 2)
	require.NoError(t, avg.Set(1, 1, 3, 1))
	assert.Equal(t, []float64{0, 3}, avg.Score([]int{1, 7, -1}))
	assert.Equal(t, []float64{0, 6}, avg.Score([]int{1, 1}))
}

func TestPredict_NoClasses(t *testing.T) {
	avg := NewSparseDenseAveragedPerceptron(0, 0)
	assert.Equal(t, -1, avg.Predict([]int{1}))
}

func TestArgmaxLabel(t *testing.T) {
	a, b := table.NewLabel("a"), table.NewLabel("b")

	tests := []struct {
		name   string
		scores map[table.Label]float64
		want   table.Label
	}{
		{name: "empty", scores: nil, want: table.NoClass},
		{name: "only no-class", scores: map[table.Label]float64{table.NoClass: 5}, want: table.NoClass},
		{name: "highest wins", scores: map[table.Label]float64{a: 1, b: 2}, want: b},
		{name: "tie goes to smallest name", scores: map[table.Label]float64{b: 1, a: 1}, want: a},
		{name: "negative scores", scores: map[table.Label]float64{a: -3, b: -1, table.NoClass: 10}, want: b},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, argmaxLabel(tt.scores))
		})
	}
}
