package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	b, err := New(4, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, b.Width())
	assert.Equal(t, 3, b.Height())
	assert.Equal(t, 12, b.Stride())
	assert.Equal(t, 36, b.Len())
	assert.NoError(t, b.Validate())

	for _, dims := range [][2]int{{0, 1}, {1, 0}, {-1, 5}} {
		_, err := New(dims[0], dims[1])
		assert.ErrorIs(t, err, ErrInvalidBuffer)
	}
}

func TestFromPix(t *testing.T) {
	t.Run("wraps samples", func(t *testing.T) {
		pix := []uint8{1, 2, 3, 4, 5, 6}
		b, err := FromPix(pix, 2, 1)
		require.NoError(t, err)
		r, g, bl := b.RGB(1, 0)
		assert.Equal(t, []uint8{4, 5, 6}, []uint8{r, g, bl})

		pix[0] = 9
		assert.Equal(t, uint8(9), b.Pix()[0])
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := FromPix(make([]uint8, 11), 2, 2)
		assert.ErrorIs(t, err, ErrInvalidBuffer)
		_, err = FromPix(make([]uint8, 13), 2, 2)
		assert.ErrorIs(t, err, ErrInvalidBuffer)
	})

	t.Run("zero dimensions", func(t *testing.T) {
		_, err := FromPix(nil, 0, 0)
		assert.ErrorIs(t, err, ErrInvalidBuffer)
	})
}

func TestRowsAndPixels(t *testing.T) {
	b, err := New(3, 2)
	require.NoError(t, err)

	b.SetRGB(2, 1, 10, 20, 30)
	assert.Equal(t, []uint8{0, 0, 0, 0, 0, 0, 10, 20, 30}, b.Row(1))
	assert.Nil(t, b.Row(-1))
	assert.Nil(t, b.Row(2))

	assert.Equal(t, color.RGBA{10, 20, 30, 0xFF}, b.At(2, 1))
	assert.Equal(t, color.RGBA{}, b.At(3, 1))
	assert.Equal(t, image.Rect(0, 0, 3, 2), b.Bounds())

	c := b.Clone()
	assert.True(t, b.Equal(c))
	c.SetRGB(0, 0, 1, 1, 1)
	assert.False(t, b.Equal(c))
	assert.False(t, b.Equal(nil))
}

func TestFromImage(t *testing.T) {
	t.Run("drops alpha without premultiplying", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
		src.SetNRGBA(0, 0, color.NRGBA{200, 100, 50, 0xFF})
		src.SetNRGBA(1, 0, color.NRGBA{200, 100, 50, 0x00})

		b, err := FromImage(src)
		require.NoError(t, err)
		assert.Equal(t, []uint8{200, 100, 50, 200, 100, 50}, b.Pix())
	})

	t.Run("offset bounds", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(5, 5, 7, 6))
		src.SetRGBA(5, 5, color.RGBA{1, 2, 3, 0xFF})
		src.SetRGBA(6, 5, color.RGBA{4, 5, 6, 0xFF})

		b, err := FromImage(src)
		require.NoError(t, err)
		assert.Equal(t, 2, b.Width())
		assert.Equal(t, 1, b.Height())
		assert.Equal(t, []uint8{1, 2, 3, 4, 5, 6}, b.Pix())
	})

	t.Run("gray", func(t *testing.T) {
		src := image.NewGray(image.Rect(0, 0, 1, 1))
		src.SetGray(0, 0, color.Gray{Y: 77})

		b, err := FromImage(src)
		require.NoError(t, err)
		assert.Equal(t, []uint8{77, 77, 77}, b.Pix())
	})

	t.Run("empty", func(t *testing.T) {
		_, err := FromImage(image.NewRGBA(image.Rectangle{}))
		assert.ErrorIs(t, err, ErrInvalidBuffer)
	})
}

func TestNRGBA(t *testing.T) {
	b, err := FromPix([]uint8{1, 2, 3, 4, 5, 6}, 1, 2)
	require.NoError(t, err)

	img := b.NRGBA()
	assert.Equal(t, color.NRGBA{1, 2, 3, 0xFF}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{4, 5, 6, 0xFF}, img.NRGBAAt(0, 1))

	back, err := FromImage(img)
	require.NoError(t, err)
	assert.True(t, b.Equal(back))
}
