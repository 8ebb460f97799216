package perceptron

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perceptronix/perceptronix/internal/serialization"
	"github.com/perceptronix/perceptronix/internal/table"
)

func trainedDense(t *testing.T) *DenseMultinomialPerceptron {
	t.Helper()
	avg := NewDenseAveragedPerceptron(3, 2)
	require.NoError(t, avg.Set(0, 1, 2, 1))
	require.NoError(t, avg.Set(2, 0, -1, 2))
	require.NoError(t, avg.Set(0, 1, 5, 3))
	avg.Tick()
	m, err := NewDenseMultinomialPerceptron(avg)
	require.NoError(t, err)
	return m
}

func trainedSparseDense(t *testing.T) *SparseDenseMultinomialPerceptron {
	t.Helper()
	avg := NewSparseDenseAveragedPerceptron(0, 2)
	require.NoError(t, avg.Set(-3, 1, 2, 1))
	require.NoError(t, avg.Set(12, 0, 0, 1))
	avg.Tick()
	m, err := NewSparseDenseMultinomialPerceptron(avg)
	require.NoError(t, err)
	return m
}

func trainedSparse(t *testing.T) *SparseMultinomialPerceptron {
	t.Helper()
	avg := NewSparseAveragedPerceptron(0, 2)
	for _, ex := range []struct {
		features []int
		gold     string
	}{
		{[]int{1, 2}, "noun"},
		{[]int{2, 3}, "verb"},
		{[]int{1}, "noun"},
	} {
		_, err := avg.Update(ex.features, table.NewLabel(ex.gold))
		require.NoError(t, err)
	}
	m, err := NewSparseMultinomialPerceptron(avg)
	require.NoError(t, err)
	return m
}

func TestDenseCodec_RoundTrip(t *testing.T) {
	m := trainedDense(t)

	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf, "dense-meta"))

	got, metadata, err := ReadDenseMultinomialPerceptron(&buf)
	require.NoError(t, err)
	assert.Equal(t, "dense-meta", metadata)
	assert.Equal(t, m, got)
	assert.Equal(t, 3, got.OuterSize())
	assert.Equal(t, 2, got.InnerSize())
}

func TestSparseDenseCodec_RoundTrip(t *testing.T) {
	m := trainedSparseDense(t)

	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf, ""))

	got, metadata, err := ReadSparseDenseMultinomialPerceptron(&buf)
	require.NoError(t, err)
	assert.Empty(t, metadata)
	assert.Equal(t, m, got)
	assert.True(t, got.table.Has(12))
}

func TestSparseCodec_RoundTrip(t *testing.T) {
	m := trainedSparse(t)

	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf, "pos-tagger"))

	got, metadata, err := ReadSparseMultinomialPerceptron(&buf)
	require.NoError(t, err)
	assert.Equal(t, "pos-tagger", metadata)
	assert.Equal(t, m, got)
	assert.Equal(t, m.Predict([]int{1}), got.Predict([]int{1}))
}

func TestSparseCodec_NeverWritesNoClass(t *testing.T) {
	a := table.NewLabel("a")
	m := newSparseMultinomialPerceptron(0, 1)
	m.table.Cell(1, table.NoClass).Set(9)
	m.table.Cell(1, a).Set(1)
	m.table.Cell(2, table.NoClass).Set(4)

	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf, ""))

	got, _, err := ReadSparseMultinomialPerceptron(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, got.OuterSize())
	assert.Equal(t, []table.Label{a}, got.Labels())
	_, ok := got.table.Lookup(1, table.NoClass)
	assert.False(t, ok)
}

func TestCodec_WrongVariant(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, trainedDense(t).Write(&buf, "x"))
	data := buf.Bytes()

	sd, _, err := ReadSparseDenseMultinomialPerceptron(bytes.NewReader(data))
	assert.Nil(t, sd)
	assert.ErrorIs(t, err, serialization.ErrWrongVariant)

	sp, _, err := ReadSparseMultinomialPerceptron(bytes.NewReader(data))
	assert.Nil(t, sp)
	assert.ErrorIs(t, err, serialization.ErrMalformedRecord)
}

func TestCodec_Malformed(t *testing.T) {
	m, metadata, err := ReadDenseMultinomialPerceptron(bytes.NewReader([]byte{0xff}))
	assert.Nil(t, m)
	assert.Empty(t, metadata)
	assert.ErrorIs(t, err, serialization.ErrMalformedRecord)
}

type failingWriter struct{}

var errDiskFull = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) { return 0, errDiskFull }

func TestCodec_WriteFailure(t *testing.T) {
	assert.ErrorIs(t, trainedDense(t).Write(failingWriter{}, ""), errDiskFull)
	assert.ErrorIs(t, trainedSparseDense(t).Write(failingWriter{}, ""), errDiskFull)
	assert.ErrorIs(t, trainedSparse(t).Write(failingWriter{}, ""), errDiskFull)
}

func TestFile_SaveLoad(t *testing.T) {
	dir := t.TempDir()

	models := map[string]Model{
		"dense.pctx":        trainedDense(t),
		"sparse-dense.pctx": trainedSparseDense(t),
		"sparse.pctx":       trainedSparse(t),
	}
	for name, m := range models {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(path, m, "meta-"+name))

			header, err := Inspect(path)
			require.NoError(t, err)
			assert.Equal(t, m.ModelType(), header.ModelType)
			assert.Equal(t, m.OuterSize(), header.OuterSize)
			assert.Equal(t, m.InnerSize(), header.InnerSize)

			got, metadata, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, "meta-"+name, metadata)
			assert.IsType(t, m, got)
			assert.Equal(t, m, got)
		})
	}
}

func TestFile_EncodeDecode(t *testing.T) {
	m := trainedSparse(t)

	data, err := Encode(m, "in-memory")
	require.NoError(t, err)

	got, metadata, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "in-memory", metadata)
	assert.Equal(t, m, got)

	data[len(data)-1] ^= 0xff
	_, _, err = Decode(data)
	assert.ErrorIs(t, err, serialization.ErrChecksumMismatch)
}

func TestFile_LoadMissing(t *testing.T) {
	m, _, err := Load(filepath.Join(t.TempDir(), "missing.pctx"))
	assert.Error(t, err)
	assert.Nil(t, m)
}
