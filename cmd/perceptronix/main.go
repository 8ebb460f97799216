// Package main provides the perceptronix CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const version = "v0.1.0"

var errUsage = errors.New("usage")

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Error().Err(err).Msg("command failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	err := dispatch(ctx, args, stdout)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func dispatch(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	switch args[0] {
	case "version":
		_, err := fmt.Fprintf(stdout, "perceptronix %s\n", version)
		return err
	case "train":
		return runTrain(ctx, args[1:], stdout)
	case "predict":
		return runPredict(args[1:], stdout)
	case "inspect":
		return runInspect(args[1:], stdout)
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return nil
	default:
		usage(stdout)
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func usage(w io.Writer) {
	_, _ = fmt.Fprintf(w, "perceptronix %s - averaged perceptron classifiers\n\n", version)
	_, _ = fmt.Fprintln(w, "Commands:")
	_, _ = fmt.Fprintln(w, "  version    Show version")
	_, _ = fmt.Fprintln(w, "  train      Train a model from a labelled dataset")
	_, _ = fmt.Fprintln(w, "  predict    Label a dataset with a trained model")
	_, _ = fmt.Fprintln(w, "  inspect    Show the header of a saved model")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Run 'perceptronix <command> -h' for command flags.")
}

func setLogLevel(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(l)
	return nil
}
