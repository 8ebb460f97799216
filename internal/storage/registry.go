package storage

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/perceptronix/perceptronix/internal/metrics"
	"github.com/perceptronix/perceptronix/internal/perceptron"
)

// Registry stores finalized models as versioned .pctx blobs.
type Registry struct {
	store   Persistence
	metrics *metrics.Metrics
}

// NewRegistry creates a registry over store. A nil m reports to metrics.Observer.
func NewRegistry(store Persistence, m *metrics.Metrics) *Registry {
	if m == nil {
		m = metrics.Observer
	}
	return &Registry{store: store, metrics: m}
}

// Put stores a new version of model under name and returns its key.
func (r *Registry) Put(name string, model perceptron.Model, metadata string) (Key, error) {
	if err := validName(name); err != nil {
		return Key{}, err
	}
	k, err := NewKey(name)
	if err != nil {
		return Key{}, err
	}

	data, err := perceptron.Encode(model, metadata)
	if err != nil {
		return Key{}, fmt.Errorf("could not encode '%s': %w", k, err)
	}
	if err := r.store.Store(k, data); err != nil {
		return Key{}, err
	}
	r.metrics.Record(metrics.OpWrite, model.ModelType(), len(data))

	log.Info().
		Str("key", k.String()).
		Str("model_type", model.ModelType()).
		Int("bytes", len(data)).
		Msg("model registered")
	return k, nil
}

// Get loads the model stored under k with its metadata.
func (r *Registry) Get(k Key) (perceptron.Model, string, error) {
	data, err := r.store.Load(k)
	if err != nil {
		return nil, "", err
	}

	model, metadata, err := perceptron.Decode(data)
	if err != nil {
		log.Error().Err(err).Str("key", k.String()).Msg("stored model is unreadable")
		return nil, "", fmt.Errorf("%w: %s: %w", CouldNotLoadErr, k, err)
	}
	r.metrics.Record(metrics.OpRead, model.ModelType(), len(data))
	return model, metadata, nil
}

// Latest returns the key of the most recently stored version of name.
func (r *Registry) Latest(name string) (Key, error) {
	versions, err := r.store.Versions(name)
	if err != nil {
		return Key{}, err
	}
	return Key{Name: name, Version: versions[len(versions)-1]}, nil
}
