package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jdpolicano/excel/packages/sheet"
)

func newRefsCmd(opts *rootOptions) *cobra.Command {
	var (
		delimiter string
		encoding  string
	)

	cmd := &cobra.Command{
		Use:   "refs <input.csv>",
		Short: "List the cells and functions each formula refers to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("delimiter") {
				cfg.CSV.Delimiter = delimiter
			}
			if cmd.Flags().Changed("encoding") {
				cfg.CSV.Encoding = encoding
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			sh, err := sheet.LoadFile(args[0], sheet.LoadOptions{
				Encoding:  cfg.CSV.Encoding,
				Delimiter: cfg.DelimiterRune(),
				Functions: cfg.FunctionSet(),
			})
			if err != nil {
				return err
			}
			logger.Debug("loaded sheet", "input", args[0], "formulas", len(sh.Formulas()))

			writeReferences(cmd.OutOrStdout(), sh)
			return nil
		},
	}

	cmd.Flags().StringVar(&delimiter, "delimiter", "", "field delimiter (default ',')")
	cmd.Flags().StringVar(&encoding, "encoding", "", "input encoding")
	return cmd
}

// writeReferences prints one block per formula cell, failures included
func writeReferences(w io.Writer, sh *sheet.Sheet) {
	refs := make(map[sheet.CellAddress]sheet.CellReferences)
	for _, r := range sh.References() {
		refs[r.Address] = r
	}

	for _, fc := range sh.Formulas() {
		fmt.Fprintf(w, "%s %s\n", NodeStyle.Render(fc.Address.String()), fc.Field.Raw)

		r, ok := refs[fc.Address]
		if !ok {
			fmt.Fprintf(w, "  %s %v\n", ErrorStyle.Render("error:"), fc.Field.Err)
			continue
		}
		fmt.Fprintf(w, "  cells:     %s\n", ValueStyle.Render(joinOrDash(r.Cells)))
		fmt.Fprintf(w, "  functions: %s\n", ValueStyle.Render(joinOrDash(r.Functions)))
	}

	shared := sh.SharedFormulas()
	if len(shared) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, HeaderStyle.Render("shared formulas"))
	for _, sf := range shared {
		cells := make([]string, len(sf.Cells))
		for i, addr := range sf.Cells {
			cells[i] = addr.String()
		}
		fmt.Fprintf(w, "%s %s\n", MutedStyle.Render(sf.Formula), ValueStyle.Render(strings.Join(cells, ", ")))
	}
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
