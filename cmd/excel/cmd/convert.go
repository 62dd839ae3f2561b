package cmd

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jdpolicano/excel/packages/config"
	"github.com/jdpolicano/excel/packages/delimited"
	"github.com/jdpolicano/excel/packages/sheet"
	"github.com/jdpolicano/excel/packages/store"
)

type convertOptions struct {
	sqlite    string
	delimiter string
	encoding  string
	quoting   string
}

func newConvertCmd(opts *rootOptions) *cobra.Command {
	copts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <input.csv> [output.csv]",
		Short: "Infer fields, normalise formulas and write CSV",
		Long: `convert reads a CSV file, infers every field (integer, float, formula or
string) and parses formulas. The result is written as CSV with numbers
normalised and parsed formulas in canonical form; formulas that fail to
parse are kept as written and reported.`,
		Example: `  excel convert input.csv
  excel convert input.csv result.csv --delimiter ';' --encoding windows-1252
  excel convert input.csv --sqlite cells.db`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := copts.apply(cmd, cfg); err != nil {
				return err
			}

			output := cfg.Output.Path
			if len(args) > 1 {
				output = args[1]
			}
			return runConvert(cmd, cfg, logger, args[0], output)
		},
	}

	cmd.Flags().StringVar(&copts.sqlite, "sqlite", "", "also store the cells in this SQLite database")
	cmd.Flags().StringVar(&copts.delimiter, "delimiter", "", "field delimiter (default ',')")
	cmd.Flags().StringVar(&copts.encoding, "encoding", "", "input encoding: utf-8, utf-8-bom, utf-16le, utf-16be, latin1, windows-1252")
	cmd.Flags().StringVar(&copts.quoting, "quoting", "", "output quoting: minimal, all, none, nonnumeric")

	return cmd
}

// apply lets explicitly set flags override the configuration
func (c *convertOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("sqlite") {
		cfg.Output.SQLite = c.sqlite
	}
	if flags.Changed("delimiter") {
		cfg.CSV.Delimiter = c.delimiter
	}
	if flags.Changed("encoding") {
		cfg.CSV.Encoding = c.encoding
	}
	if flags.Changed("quoting") {
		cfg.CSV.Quoting = c.quoting
	}
	return cfg.Validate()
}

func runConvert(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, input, output string) error {
	ctx := cmd.Context()
	logger = logger.With("run", uuid.New().String(), "input", input)

	sh, err := sheet.LoadFile(input, sheet.LoadOptions{
		Encoding:  cfg.CSV.Encoding,
		Delimiter: cfg.DelimiterRune(),
		Functions: cfg.FunctionSet(),
	})
	if err != nil {
		return err
	}

	for _, fc := range sh.Formulas() {
		if fc.Field.Err != nil {
			logger.Warn("formula did not parse", "cell", fc.Address.String(), "formula", fc.Field.Raw, "error", fc.Field.Err)
		}
	}

	if err := sh.WriteFile(output,
		delimited.WithDelimiter(cfg.DelimiterRune()),
		delimited.WithQuoting(cfg.QuotingMode()),
	); err != nil {
		return err
	}
	logger.Info("wrote csv", "output", output)

	if cfg.Output.SQLite != "" {
		db, err := store.Open(ctx, store.Config{Path: cfg.Output.SQLite})
		if err != nil {
			return err
		}
		defer db.Close()

		runID, err := db.SaveSheet(ctx, input, sh)
		if err != nil {
			return err
		}
		logger.Info("stored cells", "database", cfg.Output.SQLite, "run_id", runID)
		fmt.Fprintf(cmd.OutOrStdout(), "stored run %s in %s\n", runID, cfg.Output.SQLite)
	}

	writeStats(cmd, output, sh.Stats())
	return nil
}

func writeStats(cmd *cobra.Command, output string, stats sheet.Stats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "wrote %s: %d rows, %d cells\n", output, stats.Rows, stats.Cells)
	fmt.Fprintf(out, "  integers %d, floats %d, strings %d (%d distinct)\n",
		stats.Integers, stats.Floats, stats.Strings, stats.DistinctStrings)
	fmt.Fprintf(out, "  formulas %d (%d distinct), parse failures %d\n",
		stats.Formulas, stats.DistinctFormulas, stats.ParseFailures)
}
