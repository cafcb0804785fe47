package filter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"filterbank/codec"
	"filterbank/convolve"
	"filterbank/kernel"
	"filterbank/raster"

	"github.com/alecthomas/kong"
)

type Stage string

const (
	StageLoad   Stage = "load"
	StageFilter Stage = "filter"
	StageSave   Stage = "save"
)

// StageError tells which step of a run failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

type ApplyCmd struct {
	Image   string   `arg:"" optional:"" help:"Source image" default:"images/landscape.png"`
	Dest    string   `help:"Destination folder for filtered images, one file per filter" default:"out" env:"FILTERBANK_DEST"`
	Format  string   `help:"Output format" enum:"png,bmp,tiff" default:"png" env:"FILTERBANK_FORMAT"`
	Kernel  []string `help:"Filter to apply, repeatable. All filters when omitted" short:"k" env:"FILTERBANK_KERNELS"`
	Workers int      `help:"Goroutines sharing the rows of one filter, GOMAXPROCS when 0" default:"0" env:"FILTERBANK_WORKERS"`
	Filters int      `help:"Filters computed at once, each keeps one output image in memory" default:"1" env:"FILTERBANK_FILTERS"`

	Kernels      []kernel.Kernel `kong:"-"`
	OutputFormat codec.Format    `kong:"-"`
}

func (c *ApplyCmd) Validate(kctx *kong.Context) error {
	imagePath, err := filepath.Abs(c.Image)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(imagePath); err == nil && !info.Mode().IsRegular() {
			err = fmt.Errorf("not a regular file")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid image path %q: %w", c.Image, err)
	}
	c.Image = imagePath

	dest, err := filepath.Abs(c.Dest)
	if err != nil {
		return fmt.Errorf("invalid destination path %q: %w", c.Dest, err)
	}
	c.Dest = dest

	if c.OutputFormat, err = codec.ParseFormat(c.Format); err != nil {
		return err
	}

	if c.Kernels, err = kernel.Select(c.Kernel...); err != nil {
		return fmt.Errorf("%w, available: %v", err, kernel.Names())
	}

	switch {
	case c.Workers < 0:
		return fmt.Errorf("invalid number of workers: %d", c.Workers)
	case c.Filters < 0:
		return fmt.Errorf("invalid number of concurrent filters: %d", c.Filters)
	}

	return nil
}

func (c *ApplyCmd) Run(logger *slog.Logger) error {
	logger = logger.With("file", c.Image)

	src, err := codec.Load(c.Image)
	if err != nil {
		return &StageError{Stage: StageLoad, Err: err}
	}
	logger.Info("loaded", "width", src.Width(), "height", src.Height())

	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return &StageError{Stage: StageSave, Err: fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)}
	}

	engine := convolve.New(convolve.Options{
		Workers: c.Workers,
		Filters: c.Filters,
		Logger:  logger,
	})
	defer engine.Close()

	var written atomic.Uint64
	dirSink := &codec.DirSink{Dir: c.Dest, Format: c.OutputFormat, Logger: logger}
	sink := convolve.SinkFunc(func(name string, buf *raster.Buffer) error {
		if err := dirSink.Write(name, buf); err != nil {
			return err
		}
		written.Add(1)
		return nil
	})

	start := time.Now()
	err = engine.ApplyAll(src, c.Kernels, sink)
	logger.Info("stats", "filters", len(c.Kernels), "written", written.Load(), "dest", c.Dest,
		"elapsed", time.Since(start))

	if err != nil {
		var encErr *codec.EncodeError
		if errors.As(err, &encErr) {
			return &StageError{Stage: StageSave, Err: err}
		}
		return &StageError{Stage: StageFilter, Err: err}
	}
	return nil
}
