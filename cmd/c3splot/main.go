// Command c3splot draws the figure described by a YAML file into an
// image file.
//
//	c3splot -config figure.yaml -out figure.png
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"
)

func main() {
	configFile := flag.String("config", "c3splot.yaml", "YAML figure description")
	out := flag.String("out", "", "output image; overrides output in the config")
	verbose := flag.Bool("v", false, "log debug messages")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *configFile, *out, logger); err != nil {
		logger.Error("c3splot failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile, out string, logger *slog.Logger) error {
	config, err := LoadConfig(configFile)
	if err != nil {
		return err
	}
	if out == "" {
		out = config.Output
	}
	if out == "" {
		return errors.New("no output file given")
	}

	frames, err := config.LoadSources(ctx)
	if err != nil {
		return err
	}
	for name, df := range frames {
		logger.Debug("loaded source", "source", name, "rows", df.N, "columns", df.FieldNames())
	}

	fig, err := config.Figure(frames, logger)
	if err != nil {
		return err
	}
	logSummaries(logger, fig)

	if err := fig.Save(ctx, out); err != nil {
		return err
	}
	logger.Info("wrote figure", "file", out)
	return nil
}
