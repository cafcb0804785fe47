package codec

import (
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"filterbank/raster"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

var Formats = []Format{PNG, BMP, TIFF}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(s, ".")))
	switch f {
	case PNG, BMP, TIFF:
		return f, nil
	case "tif":
		return TIFF, nil
	}
	return "", &EncodeError{Code: CodeFormat, Message: fmt.Sprintf("unsupported output format: %s", s)}
}

// OutputPath names the file written for one kernel.
func OutputPath(dir, kernelName string, format Format) string {
	return filepath.Join(dir, fmt.Sprintf("%s.%s", kernelName, format))
}

func Encode(w io.Writer, buf *raster.Buffer, format Format) error {
	img := buf.NRGBA()

	var err error
	switch format {
	case PNG:
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		err = enc.Encode(w, img)
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return &EncodeError{Code: CodeFormat, Message: fmt.Sprintf("unsupported output format: %s", format)}
	}

	if err != nil {
		return &EncodeError{Code: CodeWrite, Message: fmt.Sprintf("could not encode %s", strings.ToUpper(string(format))),
			Err: err}
	}
	return nil
}

// Save writes buf to a temporary file next to path and renames it into
// place, so a failed write never leaves a truncated image behind.
func Save(path string, buf *raster.Buffer, format Format) (err error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	outFile, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return &EncodeError{Code: CodeCreate, Message: fmt.Sprintf("could not create temporary destination for %q", path),
			Err: err}
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); (defErr != nil) && (err == nil) {
			err = &EncodeError{Code: CodeWrite, Message: fmt.Sprintf("could not flush %q", outFile.Name()), Err: defErr}
		}
		if defErr := outFile.Close(); (defErr != nil) && (err == nil) {
			err = &EncodeError{Code: CodeWrite, Message: fmt.Sprintf("could not close %q", outFile.Name()), Err: defErr}
		}

		if canRename && (err == nil) {
			if defErr := os.Rename(outFile.Name(), path); defErr != nil {
				err = &EncodeError{Code: CodeRename, Message: fmt.Sprintf("could not rename to %q", path), Err: defErr}
			}
		}

		if err != nil {
			if rmErr := os.Remove(outFile.Name()); rmErr != nil {
				slog.Error("could not remove temporary file", "file", outFile.Name(), "error", rmErr)
			}
		}
	}()

	if err = Encode(outFile, buf, format); err != nil {
		return err
	}

	canRename = true
	return nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}

// DirSink writes every filter result to Dir, one file per kernel.
type DirSink struct {
	Dir    string
	Format Format
	Logger *slog.Logger
}

func (s *DirSink) Write(name string, buf *raster.Buffer) error {
	path := OutputPath(s.Dir, name, s.Format)
	if err := Save(path, buf, s.Format); err != nil {
		return err
	}

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("saved", "kernel", name, "file", path)
	return nil
}
