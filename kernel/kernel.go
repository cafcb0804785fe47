package kernel

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedKernel = errors.New("malformed kernel")
	ErrUnknownKernel   = errors.New("unknown kernel")
)

// Kernel is an immutable convolution matrix. Weights are stored row-major,
// Weight(dx, dy) addresses them relative to the center.
type Kernel struct {
	name    string
	width   int
	height  int
	divisor int32
	weights []int32
}

// New builds a kernel and validates it.
func New(name string, width, height int, divisor int32, weights ...int32) (Kernel, error) {
	k := Kernel{
		name:    name,
		width:   width,
		height:  height,
		divisor: divisor,
		weights: append([]int32(nil), weights...),
	}
	if err := k.Validate(); err != nil {
		return Kernel{}, err
	}
	return k, nil
}

// MustNew is New for static tables: a malformed definition panics at startup.
func MustNew(name string, width, height int, divisor int32, weights ...int32) Kernel {
	k, err := New(name, width, height, divisor, weights...)
	if err != nil {
		panic(err)
	}
	return k
}

// Identity returns the 1x1 unit kernel.
func Identity() Kernel {
	return MustNew("identity", 1, 1, 1, 1)
}

func (k Kernel) Validate() error {
	switch {
	case k.name == "":
		return fmt.Errorf("%w: empty name", ErrMalformedKernel)
	case (k.width < 1) || (k.width%2 == 0):
		return fmt.Errorf("%w: %q width must be odd and positive, got %d", ErrMalformedKernel, k.name, k.width)
	case (k.height < 1) || (k.height%2 == 0):
		return fmt.Errorf("%w: %q height must be odd and positive, got %d", ErrMalformedKernel, k.name, k.height)
	case len(k.weights) != k.width*k.height:
		return fmt.Errorf("%w: %q has %d weights, want %dx%d", ErrMalformedKernel, k.name, len(k.weights),
			k.width, k.height)
	case (k.divisor == 0) && (k.Sum() != 0):
		return fmt.Errorf("%w: %q has zero divisor but weights sum to %d", ErrMalformedKernel, k.name, k.Sum())
	}
	return nil
}

func (k Kernel) Name() string { return k.name }
func (k Kernel) Width() int   { return k.width }
func (k Kernel) Height() int  { return k.height }

// Radius returns the number of neighbors sampled on each side of the center.
func (k Kernel) Radius() (rx, ry int) {
	return (k.width - 1) / 2, (k.height - 1) / 2
}

// Divisor returns the effective normalization divisor. A zero divisor on a
// zero-sum kernel normalizes by 1.
func (k Kernel) Divisor() int32 {
	if k.divisor == 0 {
		return 1
	}
	return k.divisor
}

// Weight returns the weight at offset (dx, dy) from the center, 0 outside the matrix.
func (k Kernel) Weight(dx, dy int) int32 {
	rx, ry := k.Radius()
	if (dx < -rx) || (dx > rx) || (dy < -ry) || (dy > ry) {
		return 0
	}
	return k.weights[(dy+ry)*k.width+dx+rx]
}

// Weights returns a copy of the row-major weight matrix.
func (k Kernel) Weights() []int32 {
	return append([]int32(nil), k.weights...)
}

func (k Kernel) Sum() int64 {
	var sum int64
	for _, w := range k.weights {
		sum += int64(w)
	}
	return sum
}

func (k Kernel) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %dx%d /%d", k.name, k.width, k.height, k.Divisor())
	for y := range k.height {
		sb.WriteString("\n ")
		for x := range k.width {
			fmt.Fprintf(&sb, " %3d", k.weights[y*k.width+x])
		}
	}
	return sb.String()
}
