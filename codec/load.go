package codec

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"

	"filterbank/raster"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

// Load decodes the image at path into an RGB buffer.
func Load(path string) (*raster.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Code: CodeOpen, Message: fmt.Sprintf("could not open %q", path), Err: err}
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close image", "file", path, "error", closeErr)
		}
	}()

	buf, format, err := Decode(f)
	if err != nil {
		return nil, err
	}

	slog.Debug("loaded", "file", path, "format", format, "width", buf.Width(), "height", buf.Height())
	return buf, nil
}

// Decode reads any registered image format and returns the buffer and the
// format name.
func Decode(r io.Reader) (*raster.Buffer, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", &DecodeError{Code: CodeFormat, Message: "could not decode image", Err: err}
	}

	buf, err := raster.FromImage(img)
	if err != nil {
		return nil, format, &DecodeError{Code: CodeEmpty, Message: fmt.Sprintf("empty %s image", format), Err: err}
	}
	return buf, format, nil
}
