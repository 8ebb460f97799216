package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/perceptronix/perceptronix/internal/metrics"
	"github.com/perceptronix/perceptronix/internal/parallel"
	"github.com/perceptronix/perceptronix/internal/perceptron"
	"github.com/perceptronix/perceptronix/internal/storage"
	"github.com/perceptronix/perceptronix/internal/train"
)

func newFlagSet(name string, stdout io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stdout)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	return nil
}

func runTrain(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("train", stdout)
	dataPath := fs.String("data", "", "Labelled dataset file (required)")
	configPath := fs.String("config", "", "JSON training config; flags override it")
	variant := fs.String("variant", string(train.VariantSparse), "Model layout: dense, sparse-dense or sparse")
	outer := fs.Int("outer", 0, "Feature count (dense) or capacity hint; 0 derives it from the data")
	epochs := fs.Int("epochs", 5, "Number of training epochs")
	seed := fs.Int64("seed", 1, "Shuffle seed")
	shuffle := fs.Bool("shuffle", true, "Shuffle examples every epoch")
	note := fs.String("metadata", "", "Free-form note stored with the model")
	out := fs.String("out", "", "Write the model to this .pctx file")
	registryDir := fs.String("registry", "", "Store the model in this registry directory")
	name := fs.String("name", "", "Model name in the registry")
	metricsAddr := fs.String("metrics", "", "Serve prometheus metrics on this address, e.g. :9090")
	logLevel := fs.String("log-level", "info", "Log level")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := setLogLevel(*logLevel); err != nil {
		return err
	}
	if *dataPath == "" {
		return fmt.Errorf("%w: -data is required", errUsage)
	}
	if *out == "" && *registryDir == "" {
		return fmt.Errorf("%w: one of -out or -registry is required", errUsage)
	}
	if *registryDir != "" && *name == "" {
		return fmt.Errorf("%w: -registry needs -name", errUsage)
	}

	cfg := defaultTrainConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadTrainConfig(*configPath); err != nil {
			return err
		}
	}
	set := setFlags(fs)
	if set["variant"] || *configPath == "" {
		cfg.Variant = *variant
	}
	if set["outer"] {
		cfg.Outer = *outer
	}
	if set["metadata"] {
		cfg.Metadata = *note
	}
	if set["epochs"] || *configPath == "" {
		cfg.Train.Epochs = *epochs
	}
	if set["seed"] || *configPath == "" {
		cfg.Train.Seed = *seed
	}
	if set["shuffle"] || *configPath == "" {
		cfg.Train.Shuffle = *shuffle
	}

	v, err := train.ParseVariant(cfg.Variant)
	if err != nil {
		return err
	}

	if *metricsAddr != "" {
		shutdown, err := serveMetrics(*metricsAddr)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	data, err := train.LoadDataset(*dataPath)
	if err != nil {
		return err
	}
	classes := data.Labels()
	if cfg.Outer == 0 {
		cfg.Outer = data.MaxFeature() + 1
	}
	log.Info().
		Str("variant", string(v)).
		Int("examples", len(data)).
		Int("classes", len(classes)).
		Int("outer", cfg.Outer).
		Msg("training")

	learner, err := train.NewLearner(v, cfg.Outer, classes)
	if err != nil {
		return err
	}
	model, _, err := train.NewTrainer(cfg.Train, metrics.Observer).Train(ctx, learner, data)
	if err != nil {
		return err
	}

	predictor, err := train.NewPredictor(model, classes)
	if err != nil {
		return err
	}
	accuracy := train.Evaluate(predictor, data, parallel.DefaultConfig())
	log.Info().Float64("accuracy", accuracy).Msg("training accuracy of averaged model")

	metadata := train.NewMetadata(v, classes, cfg.Metadata).String()
	if *out != "" {
		if err := perceptron.Save(*out, model, metadata); err != nil {
			return err
		}
		log.Info().Str("path", *out).Msg("model saved")
	}
	if *registryDir != "" {
		store, err := storage.NewFileStore(*registryDir)
		if err != nil {
			return err
		}
		k, err := storage.NewRegistry(store, metrics.Observer).Put(*name, model, metadata)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, k.String())
		return err
	}
	return nil
}

func serveMetrics(addr string) (func(), error) {
	if err := metrics.Observer.Register(prometheus.DefaultRegisterer); err != nil {
		return nil, fmt.Errorf("could not register metrics: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(prometheus.DefaultGatherer))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("could not start metrics server")
		}
	}()
	log.Info().Str("addr", addr).Msg("serving metrics")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func runPredict(args []string, stdout io.Writer) error {
	fs := newFlagSet("predict", stdout)
	modelPath := fs.String("model", "", "Model .pctx file")
	registryDir := fs.String("registry", "", "Registry directory to load the model from")
	name := fs.String("name", "", "Model name in the registry")
	versionFlag := fs.String("version", "", "Model version in the registry (default: latest)")
	dataPath := fs.String("data", "", "Dataset to label (required)")
	logLevel := fs.String("log-level", "info", "Log level")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := setLogLevel(*logLevel); err != nil {
		return err
	}
	if *dataPath == "" {
		return fmt.Errorf("%w: -data is required", errUsage)
	}

	model, metadata, err := loadModel(*modelPath, *registryDir, *name, *versionFlag)
	if err != nil {
		return err
	}

	var classes []string
	if md, err := train.ParseMetadata(metadata); err == nil {
		classes = md.Classes
	} else {
		log.Warn().Err(err).Msg("model metadata carries no class names")
	}
	predictor, err := train.NewPredictor(model, classes)
	if err != nil {
		return err
	}

	data, err := train.LoadDataset(*dataPath)
	if err != nil {
		return err
	}
	for _, ex := range data {
		if _, err := fmt.Fprintln(stdout, predictor.PredictLabel(ex.Features)); err != nil {
			return err
		}
	}
	log.Info().
		Int("examples", len(data)).
		Float64("accuracy", train.Evaluate(predictor, data, parallel.DefaultConfig())).
		Msg("labelled")
	return nil
}

func loadModel(path, registryDir, name, version string) (perceptron.Model, string, error) {
	switch {
	case path != "":
		return perceptron.Load(path)
	case registryDir != "" && name != "":
		store, err := storage.NewFileStore(registryDir)
		if err != nil {
			return nil, "", err
		}
		registry := storage.NewRegistry(store, metrics.Observer)
		k := storage.Key{Name: name, Version: version}
		if version == "" {
			if k, err = registry.Latest(name); err != nil {
				return nil, "", err
			}
		}
		return registry.Get(k)
	default:
		return nil, "", fmt.Errorf("%w: -model or -registry with -name is required", errUsage)
	}
}

func runInspect(args []string, stdout io.Writer) error {
	fs := newFlagSet("inspect", stdout)
	modelPath := fs.String("model", "", "Model .pctx file (required)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *modelPath == "" {
		return fmt.Errorf("%w: -model is required", errUsage)
	}

	header, err := perceptron.Inspect(*modelPath)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(header)
}
