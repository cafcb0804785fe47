package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"filterbank/filter"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

type cli struct {
	LogLevel  string `help:"Log level" enum:"debug,info,warn,error" default:"info" env:"FILTERBANK_LOG_LEVEL"`
	LogFormat string `help:"Log output format" enum:"text,json" default:"text" env:"FILTERBANK_LOG_FORMAT"`

	Apply filter.ApplyCmd `cmd:"" default:"withargs" help:"Apply the filter set to an image, writing one image per filter"`
	List  filter.ListCmd  `cmd:"" help:"List the available filters"`
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load .env file", "error", err)
	}

	var conf cli
	kctx := kong.Parse(&conf,
		kong.Name("filterbank"),
		kong.Description("Convolve an RGB image with a fixed set of filters."),
		kong.UsageOnError(),
	)

	logger := newLogger(conf.LogLevel, conf.LogFormat)
	slog.SetDefault(logger)

	if err := kctx.Run(logger); err != nil {
		var stageErr *filter.StageError
		if errors.As(err, &stageErr) {
			logger.Error("run failed", "stage", stageErr.Stage, "error", stageErr.Err)
		} else {
			logger.Error("run failed", "error", err)
		}
		os.Exit(1)
	}
}
