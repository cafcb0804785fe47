package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Channels is the number of interleaved samples per pixel: R, G, B.
const Channels = 3

var ErrInvalidBuffer = errors.New("invalid buffer")

type Buffer struct {
	// pix holds the samples. The pixel at (x, y) starts at
	// pix[y*width*Channels + x*Channels].
	pix    []uint8
	width  int
	height int
}

var _ image.Image = &Buffer{}

func New(width, height int) (*Buffer, error) {
	if (width < 1) || (height < 1) {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBuffer, width, height)
	}
	return &Buffer{
		pix:    make([]uint8, width*height*Channels),
		width:  width,
		height: height,
	}, nil
}

// FromPix wraps pix without copying it.
func FromPix(pix []uint8, width, height int) (*Buffer, error) {
	b := &Buffer{
		pix:    pix,
		width:  width,
		height: height,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// FromImage converts img to straight RGB. Alpha is dropped without
// premultiplying, so fully transparent pixels keep their stored color.
func FromImage(img image.Image) (*Buffer, error) {
	sr := img.Bounds()
	b, err := New(sr.Dx(), sr.Dy())
	if err != nil {
		return nil, err
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || (nrgba.Rect.Min != image.Point{}) {
		dr := image.Rect(0, 0, sr.Dx(), sr.Dy())
		nrgba = image.NewNRGBA(dr)
		draw.Draw(nrgba, dr, img, sr.Min, draw.Src)
	}

	for y := range b.height {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+b.width*4]
		dst := b.Row(y)
		for x := range b.width {
			copy(dst[x*Channels:x*Channels+Channels], src[x*4:x*4+Channels])
		}
	}
	return b, nil
}

func (b *Buffer) Validate() error {
	switch {
	case (b.width < 1) || (b.height < 1):
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBuffer, b.width, b.height)
	case len(b.pix) != b.width*b.height*Channels:
		return fmt.Errorf("%w: %d samples for %dx%d, want %d", ErrInvalidBuffer, len(b.pix), b.width, b.height,
			b.width*b.height*Channels)
	}
	return nil
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

// Stride is the number of samples between vertically adjacent pixels.
func (b *Buffer) Stride() int { return b.width * Channels }

func (b *Buffer) Len() int { return len(b.pix) }

// Pix returns the backing samples. Callers must not change its length.
func (b *Buffer) Pix() []uint8 { return b.pix }

func (b *Buffer) Row(y int) []uint8 {
	if (y < 0) || (y >= b.height) {
		return nil
	}
	stride := b.Stride()
	return b.pix[y*stride : (y+1)*stride]
}

func (b *Buffer) offset(x, y int) int {
	return y*b.Stride() + x*Channels
}

func (b *Buffer) RGB(x, y int) (r, g, bl uint8) {
	i := b.offset(x, y)
	return b.pix[i], b.pix[i+1], b.pix[i+2]
}

func (b *Buffer) SetRGB(x, y int, r, g, bl uint8) {
	i := b.offset(x, y)
	b.pix[i], b.pix[i+1], b.pix[i+2] = r, g, bl
}

func (b *Buffer) Clone() *Buffer {
	return &Buffer{
		pix:    bytes.Clone(b.pix),
		width:  b.width,
		height: b.height,
	}
}

func (b *Buffer) Equal(o *Buffer) bool {
	if o == nil {
		return false
	}
	return (b.width == o.width) && (b.height == o.height) && bytes.Equal(b.pix, o.pix)
}

func (b *Buffer) ColorModel() color.Model { return color.RGBAModel }

func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

func (b *Buffer) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(b.Bounds())) {
		return color.RGBA{}
	}
	r, g, bl := b.RGB(x, y)
	return color.RGBA{R: r, G: g, B: bl, A: 0xFF}
}

// NRGBA returns an opaque copy in a layout the standard encoders handle
// without per-pixel interface calls.
func (b *Buffer) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(b.Bounds())
	for y := range b.height {
		src := b.Row(y)
		dst := img.Pix[y*img.Stride : y*img.Stride+b.width*4]
		for x := range b.width {
			copy(dst[x*4:x*4+Channels], src[x*Channels:x*Channels+Channels])
			dst[x*4+3] = 0xFF
		}
	}
	return img
}
