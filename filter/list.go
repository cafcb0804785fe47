package filter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"filterbank/kernel"

	"github.com/alecthomas/kong"
)

type ListCmd struct {
	Weights bool `help:"Print the weight matrices too" short:"w"`
}

func (c *ListCmd) Run(kctx *kong.Context) error {
	return c.print(kctx.Stdout)
}

func (c *ListCmd) print(w io.Writer) error {
	if c.Weights {
		for _, k := range kernel.Catalog() {
			if _, err := fmt.Fprintf(w, "%s\n\n", k); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tDIVISOR\tSUM")
	for _, k := range kernel.Catalog() {
		fmt.Fprintf(tw, "%s\t%dx%d\t%d\t%d\n", k.Name(), k.Width(), k.Height(), k.Divisor(), k.Sum())
	}
	return tw.Flush()
}
