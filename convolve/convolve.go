// Package convolve applies kernel catalogs to RGB buffers.
//
// Every output sample is the kernel-weighted sum of the source neighborhood
// around the same position, divided by the kernel divisor and saturated to
// [0, 255]. Reads outside the image repeat the nearest edge pixel. Filters
// are independent: each one reads the original input only.
package convolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"filterbank/kernel"
	"filterbank/parallel"
	"filterbank/raster"

	"golang.org/x/sync/errgroup"
)

var ErrNoKernels = errors.New("no kernels")

type Options struct {
	// Workers splits the rows of one filter, GOMAXPROCS if < 1.
	Workers int
	// Filters is how many filters are computed at once, 1 if < 1. Every
	// in-flight filter holds one output buffer.
	Filters int
	Logger  *slog.Logger
}

type Engine struct {
	pool    *parallel.Pool
	filters int
	logger  *slog.Logger
}

func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		pool:    parallel.Start(opts.Workers),
		filters: max(opts.Filters, 1),
		logger:  logger,
	}
}

func (e *Engine) Close() {
	e.pool.Stop()
}

// Apply filters src with k on the calling goroutine.
func Apply(src *raster.Buffer, k kernel.Kernel) (*raster.Buffer, error) {
	e := New(Options{Workers: 1})
	defer e.Close()
	return e.Apply(src, k)
}

// ApplyAll runs kernels one after the other on a single thread.
func ApplyAll(src *raster.Buffer, kernels []kernel.Kernel, sink Sink) error {
	e := New(Options{Workers: 1})
	defer e.Close()
	return e.ApplyAll(src, kernels, sink)
}

// Apply returns a new buffer holding src filtered by k.
func (e *Engine) Apply(src *raster.Buffer, k kernel.Kernel) (*raster.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return e.apply(src, k), nil
}

// ApplyAll filters src with every kernel and hands each result to sink,
// in kernel order when Filters is 1. Inputs are checked before any pixel
// is computed. Sink calls never overlap. The first error stops scheduling
// further filters and is returned.
func (e *Engine) ApplyAll(src *raster.Buffer, kernels []kernel.Kernel, sink Sink) error {
	if err := src.Validate(); err != nil {
		return err
	}
	if len(kernels) == 0 {
		return ErrNoKernels
	}
	for _, k := range kernels {
		if err := k.Validate(); err != nil {
			return err
		}
	}

	sink = serialize(sink)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(e.filters)

	for _, k := range kernels {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			logger := e.logger.With("kernel", k.Name())
			start := time.Now()
			dst := e.apply(src, k)
			logger.Debug("filtered", "width", dst.Width(), "height", dst.Height(),
				"elapsed", time.Since(start))

			if err := sink.Write(k.Name(), dst); err != nil {
				return fmt.Errorf("could not write %q result: %w", k.Name(), err)
			}
			return nil
		})
	}

	return g.Wait()
}

func (e *Engine) apply(src *raster.Buffer, k kernel.Kernel) *raster.Buffer {
	dst, _ := raster.New(src.Width(), src.Height())

	c := newConvolver(src, dst, k)
	e.pool.Rows(src.Height(), c.rows)

	return dst
}
