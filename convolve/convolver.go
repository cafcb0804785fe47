package convolve

import (
	"filterbank/kernel"
	"filterbank/raster"
)

// tap is one non-zero kernel weight, with the row it reads relative to the
// output row and its index into the clamped column table.
type tap struct {
	dy     int
	col    int
	weight int64
}

type convolver struct {
	src     []uint8
	dst     *raster.Buffer
	width   int
	height  int
	stride  int
	kw      int
	divisor int64
	taps    []tap
	// cols[x*kw+i] is the sample offset of column x+i-rx, clamped to the image.
	cols []int
}

func newConvolver(src, dst *raster.Buffer, k kernel.Kernel) *convolver {
	rx, ry := k.Radius()
	c := &convolver{
		src:     src.Pix(),
		dst:     dst,
		width:   src.Width(),
		height:  src.Height(),
		stride:  src.Stride(),
		kw:      k.Width(),
		divisor: int64(k.Divisor()),
	}

	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			if w := k.Weight(dx, dy); w != 0 {
				c.taps = append(c.taps, tap{dy: dy, col: dx + rx, weight: int64(w)})
			}
		}
	}

	c.cols = make([]int, c.width*c.kw)
	for x := range c.width {
		for i := range c.kw {
			c.cols[x*c.kw+i] = clampInt(x+i-rx, 0, c.width-1) * raster.Channels
		}
	}

	return c
}

// rows computes output rows [start, end). Workers own disjoint row ranges.
func (c *convolver) rows(start, end int) {
	for y := start; y < end; y++ {
		out := c.dst.Row(y)
		for x := range c.width {
			cols := c.cols[x*c.kw : (x+1)*c.kw]

			var r, g, b int64
			for _, t := range c.taps {
				i := clampInt(y+t.dy, 0, c.height-1)*c.stride + cols[t.col]
				r += t.weight * int64(c.src[i])
				g += t.weight * int64(c.src[i+1])
				b += t.weight * int64(c.src[i+2])
			}

			o := x * raster.Channels
			out[o] = saturate(r / c.divisor)
			out[o+1] = saturate(g / c.divisor)
			out[o+2] = saturate(b / c.divisor)
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	} else if v > hi {
		return hi
	}
	return v
}

func saturate(v int64) uint8 {
	if v < 0 {
		return 0
	} else if v > 0xFF {
		return 0xFF
	}
	return uint8(v)
}
