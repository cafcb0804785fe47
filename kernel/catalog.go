package kernel

import "fmt"

var catalog = []Kernel{
	MustNew("box-blur", 3, 3, 9,
		1, 1, 1,
		1, 1, 1,
		1, 1, 1,
	),
	MustNew("gaussian-blur", 5, 5, 256,
		1, 4, 6, 4, 1,
		4, 16, 24, 16, 4,
		6, 24, 36, 24, 6,
		4, 16, 24, 16, 4,
		1, 4, 6, 4, 1,
	),
	MustNew("sharpen", 3, 3, 1,
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	),
	MustNew("edge-detect", 3, 3, 1,
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	),
	MustNew("emboss", 3, 3, 1,
		-2, -1, 0,
		-1, 1, 1,
		0, 1, 2,
	),
}

// Catalog returns the filters applied to every input, in output order.
func Catalog() []Kernel {
	return append([]Kernel(nil), catalog...)
}

func Names() []string {
	names := make([]string, len(catalog))
	for i, k := range catalog {
		names[i] = k.name
	}
	return names
}

func Lookup(name string) (Kernel, bool) {
	for _, k := range catalog {
		if k.name == name {
			return k, true
		}
	}
	return Kernel{}, false
}

// Select returns the named kernels in catalog order. No names selects the
// whole catalog.
func Select(names ...string) ([]Kernel, error) {
	if len(names) == 0 {
		return Catalog(), nil
	}

	want := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := Lookup(name); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
		}
		want[name] = true
	}

	res := make([]Kernel, 0, len(want))
	for _, k := range catalog {
		if want[k.name] {
			res = append(res, k)
		}
	}
	return res, nil
}
