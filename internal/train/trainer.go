package train

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/perceptronix/perceptronix/internal/metrics"
	"github.com/perceptronix/perceptronix/internal/parallel"
	"github.com/perceptronix/perceptronix/internal/perceptron"
)

// Config controls a training run.
type Config struct {
	Epochs  int   `json:"epochs"`
	Seed    int64 `json:"seed"`
	Shuffle bool  `json:"shuffle"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Epochs:  5,
		Seed:    1,
		Shuffle: true,
	}
}

// Trainer runs epochs of perceptron updates over a dataset.
type Trainer struct {
	cfg     Config
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewTrainer creates a trainer reporting to m. A nil m reports to metrics.Observer.
func NewTrainer(cfg Config, m *metrics.Metrics) *Trainer {
	if m == nil {
		m = metrics.Observer
	}
	return &Trainer{
		cfg:     cfg,
		metrics: m,
		logger:  log.Logger,
	}
}

// WithLogger returns a copy of t logging to logger.
func (t *Trainer) WithLogger(logger zerolog.Logger) *Trainer {
	c := *t
	c.logger = logger
	return &c
}

// EpochResult summarizes one pass over the training data.
type EpochResult struct {
	Epoch    int
	Mistakes int
	Accuracy float64
}

// Train feeds data to l for the configured number of epochs and returns the
// finalized model. Cancelling ctx stops training between examples.
func (t *Trainer) Train(ctx context.Context, l Learner, data Dataset) (perceptron.Model, []EpochResult, error) {
	if len(data) == 0 {
		return nil, nil, ErrEmptyDataset
	}
	if t.cfg.Epochs < 1 {
		return nil, nil, fmt.Errorf("epochs must be positive, got %d", t.cfg.Epochs)
	}

	order := make([]int, len(data))
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewSource(t.cfg.Seed)) //nolint:gosec // G404: shuffling, not security

	variant := string(l.Variant())
	results := make([]EpochResult, 0, t.cfg.Epochs)
	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		if t.cfg.Shuffle {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		mistakes := 0
		for _, i := range order {
			if err := ctx.Err(); err != nil {
				return nil, results, err
			}
			correct, err := l.Learn(data[i])
			if err != nil {
				return nil, results, fmt.Errorf("epoch %d, example %d: %w", epoch, i, err)
			}
			if !correct {
				mistakes++
			}
			t.metrics.Update(variant, correct)
		}
		t.metrics.Epoch(variant)

		result := EpochResult{
			Epoch:    epoch,
			Mistakes: mistakes,
			Accuracy: 1 - float64(mistakes)/float64(len(data)),
		}
		results = append(results, result)
		t.logger.Info().
			Str("variant", variant).
			Int("epoch", epoch).
			Int("mistakes", mistakes).
			Float64("accuracy", result.Accuracy).
			Msg("epoch done")
	}

	model, err := l.Finalize()
	if err != nil {
		return nil, results, fmt.Errorf("failed to finalize model: %w", err)
	}
	t.logger.Debug().
		Str("model_type", model.ModelType()).
		Int("outer", model.OuterSize()).
		Int("inner", model.InnerSize()).
		Msg("model finalized")
	return model, results, nil
}

// Evaluate returns the fraction of data that p labels correctly. Examples
// are scored concurrently according to cfg.
func Evaluate(p Predictor, data Dataset, cfg parallel.Config) float64 {
	if len(data) == 0 {
		return 0
	}
	correct := parallel.Count(len(data), func(i int) bool {
		return p.PredictLabel(data[i].Features) == data[i].Label
	}, cfg)
	return float64(correct) / float64(len(data))
}
