package train

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perceptronix/perceptronix/internal/metrics"
	"github.com/perceptronix/perceptronix/internal/parallel"
	"github.com/perceptronix/perceptronix/internal/perceptron"
)

const toyData = `# weather
sunny 0 2
rainy 1 3

sunny 0 5
rainy 1 6
`

func toyDataset(t *testing.T) Dataset {
	t.Helper()
	data, err := ReadDataset(strings.NewReader(toyData))
	require.NoError(t, err)
	return data
}

func TestReadDataset(t *testing.T) {
	data := toyDataset(t)
	require.Len(t, data, 4)
	assert.Equal(t, Example{Label: "sunny", Features: []int{0, 2}}, data[0])
	assert.Equal(t, []string{"rainy", "sunny"}, data.Labels())
	assert.Equal(t, 6, data.MaxFeature())
}

func TestReadDataset_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "not a number", input: "a 1 x\n", want: `line 1: bad feature "x"`},
		{name: "negative", input: "a 1\nb -2\n", want: "line 2: negative feature -2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDataset(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadDataset_LabelOnly(t *testing.T) {
	data, err := ReadDataset(strings.NewReader("bias\n"))
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Empty(t, data[0].Features)
	assert.Equal(t, -1, data.MaxFeature())
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("sparse-dense")
	require.NoError(t, err)
	assert.Equal(t, VariantSparseDense, v)

	_, err = ParseVariant("tree")
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestTrainer_AllVariants(t *testing.T) {
	data := toyDataset(t)
	classes := data.Labels()

	for _, variant := range []Variant{VariantDense, VariantSparseDense, VariantSparse} {
		t.Run(string(variant), func(t *testing.T) {
			m := metrics.New()
			learner, err := NewLearner(variant, data.MaxFeature()+1, classes)
			require.NoError(t, err)

			trainer := NewTrainer(Config{Epochs: 4, Seed: 7, Shuffle: true}, m).WithLogger(zerolog.Nop())
			model, results, err := trainer.Train(context.Background(), learner, data)
			require.NoError(t, err)
			require.Len(t, results, 4)
			assert.Equal(t, 0, results[3].Mistakes)
			assert.Equal(t, 1.0, results[3].Accuracy)

			predictor, err := NewPredictor(model, classes)
			require.NoError(t, err)
			assert.Equal(t, 1.0, Evaluate(predictor, data, parallel.Config{Enabled: true, NumWorkers: 2, MinChunkSize: 1}))
			assert.Equal(t, "sunny", predictor.PredictLabel([]int{0}))
			assert.Equal(t, "rainy", predictor.PredictLabel([]int{1}))
		})
	}
}

func TestTrainer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New()
	require.NoError(t, m.Register(reg))

	data := toyDataset(t)
	learner, err := NewLearner(VariantSparse, 0, nil)
	require.NoError(t, err)

	_, results, err := NewTrainer(Config{Epochs: 2}, m).WithLogger(zerolog.Nop()).
		Train(context.Background(), learner, data)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "perceptronix_train_updates_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	mistakes := 0
	for _, r := range results {
		mistakes += r.Mistakes
	}
	assert.Greater(t, mistakes, 0)
}

func TestTrainer_Errors(t *testing.T) {
	learner, err := NewLearner(VariantDense, 5, []string{"rainy", "sunny"})
	require.NoError(t, err)
	trainer := NewTrainer(DefaultConfig(), metrics.New()).WithLogger(zerolog.Nop())

	_, _, err = trainer.Train(context.Background(), learner, nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)

	_, _, err = trainer.Train(context.Background(), learner, Dataset{{Label: "snowy", Features: []int{1}}})
	assert.ErrorIs(t, err, ErrUnknownLabel)

	_, _, err = trainer.Train(context.Background(), learner, Dataset{{Label: "sunny", Features: []int{9}}})
	assert.ErrorIs(t, err, perceptron.ErrOutOfRange)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = trainer.Train(ctx, learner, toyDataset(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewPredictor_ClassMismatch(t *testing.T) {
	learner, err := NewLearner(VariantDense, 2, []string{"a", "b"})
	require.NoError(t, err)
	_, err = learner.Learn(Example{Label: "a", Features: []int{0}})
	require.NoError(t, err)
	model, err := learner.Finalize()
	require.NoError(t, err)

	_, err = NewPredictor(model, []string{"a"})
	assert.Error(t, err)
}

func TestMetadata_RoundTrip(t *testing.T) {
	md := NewMetadata(VariantDense, []string{"a", "b"}, "nightly")
	assert.NotEmpty(t, md.Run)

	got, err := ParseMetadata(md.String())
	require.NoError(t, err)
	assert.Equal(t, md, got)

	_, err = ParseMetadata("not json")
	assert.Error(t, err)
}
