package perceptron

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perceptronix/perceptronix/internal/table"
)

func TestFinalize_ZeroTime(t *testing.T) {
	_, err := NewDenseMultinomialPerceptron(NewDenseAveragedPerceptron(2, 2))
	assert.ErrorIs(t, err, ErrZeroTime)

	_, err = NewSparseDenseMultinomialPerceptron(NewSparseDenseAveragedPerceptron(0, 2))
	assert.ErrorIs(t, err, ErrZeroTime)

	_, err = NewSparseMultinomialPerceptron(NewSparseAveragedPerceptron(0, 2))
	assert.ErrorIs(t, err, ErrZeroTime)
}

func TestFinalize_Dimensions(t *testing.T) {
	dense := NewDenseAveragedPerceptron(4, 3)
	require.NoError(t, dense.Set(2, 2, 1, 1))
	dm, err := NewDenseMultinomialPerceptron(dense)
	require.NoError(t, err)
	assert.Equal(t, 4, dm.OuterSize())
	assert.Equal(t, 3, dm.InnerSize())

	sd := NewSparseDenseAveragedPerceptron(0, 3)
	require.NoError(t, sd.Set(1, 0, 1, 1))
	require.NoError(t, sd.Set(5, 2, 0, 2))
	sdm, err := NewSparseDenseMultinomialPerceptron(sd)
	require.NoError(t, err)
	assert.Equal(t, 2, sdm.OuterSize())
	assert.Equal(t, 3, sdm.InnerSize())
	assert.True(t, sdm.table.Has(5), "an all-zero row is still a row")
	assert.Equal(t, 0.5, sdm.Get(1, 0))
}

func TestFinalize_SparseDropsNoClass(t *testing.T) {
	a := table.NewLabel("a")

	avg := NewSparseAveragedPerceptron(0, 1)
	require.NoError(t, avg.Set(1, table.NoClass, 3, 1))
	require.NoError(t, avg.Set(1, a, 2, 1))
	require.NoError(t, avg.Set(2, table.NoClass, 1, 2))

	m, err := NewSparseMultinomialPerceptron(avg)
	require.NoError(t, err)

	assert.Equal(t, 2, m.OuterSize())
	assert.Equal(t, 1, m.InnerSize())
	assert.Equal(t, []table.Label{a}, m.Labels())
	assert.Equal(t, 1.0, m.Get(1, a))

	_, ok := m.table.Lookup(1, table.NoClass)
	assert.False(t, ok)

	row, ok := m.table.Row(2)
	require.True(t, ok)
	assert.Empty(t, row)
}

func TestFinalize_LeavesAccumulatorUsable(t *testing.T) {
	avg := NewSparseDenseAveragedPerceptron(0, 2)
	require.NoError(t, avg.Set(0, 1, 1, 1))

	first, err := NewSparseDenseMultinomialPerceptron(avg)
	require.NoError(t, err)

	require.NoError(t, avg.Set(0, 1, 3, 2))
	second, err := NewSparseDenseMultinomialPerceptron(avg)
	require.NoError(t, err)

	// A value set at the finalize time has not yet been current for any tick.
	assert.Equal(t, 0.0, first.Get(0, 1))
	assert.Equal(t, 0.5, second.Get(0, 1))
}
