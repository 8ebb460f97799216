package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/perceptronix/perceptronix/internal/train"
)

// trainConfig is the optional JSON configuration of the train command.
// Flags set on the command line override it.
type trainConfig struct {
	Variant  string       `json:"variant"`
	Outer    int          `json:"outer"`
	Metadata string       `json:"metadata"`
	Train    train.Config `json:"train"`
}

func defaultTrainConfig() trainConfig {
	return trainConfig{
		Variant: string(train.VariantSparse),
		Train:   train.DefaultConfig(),
	}
}

func loadTrainConfig(path string) (trainConfig, error) {
	cfg := defaultTrainConfig()
	//nolint:gosec // G304: config path is user input
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config '%s': %w", path, err)
	}
	return cfg, nil
}

// setFlags returns the names of the flags given explicitly on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}
