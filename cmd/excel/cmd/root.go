package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jdpolicano/excel/packages/config"
	"github.com/jdpolicano/excel/packages/logging"
)

type rootOptions struct {
	cfgFile string
	verbose bool
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "excel",
		Short: "Spreadsheet formula parser and CSV converter",
		Long: `excel reads CSV files, infers the type of every field and parses
formulas (fields starting with '=') into syntax trees.

Commands:
  convert  - infer fields, normalise formulas, write CSV (and SQLite)
  parse    - print the syntax tree of a formula
  tokens   - print the token stream of a formula
  refs     - list the cells and functions each formula refers to
  repl     - parse formulas interactively`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: $EXCEL_CONFIG, ./excel.toml or ./excel.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		newConvertCmd(opts),
		newParseCmd(opts),
		newTokensCmd(opts),
		newRefsCmd(opts),
		newReplCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the command line
func Execute() error {
	return execute(NewRootCmd())
}

func execute(rootCmd *cobra.Command) error {
	if err := rootCmd.Execute(); err != nil {
		var shown *shownError
		if !errors.As(err, &shown) {
			printError(rootCmd, err)
		}
		return err
	}
	return nil
}

// load resolves the configuration and a logger writing to the command's
// stderr
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.cfgFile != "" {
		cfg, err = config.Load(o.cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Log.Level
	if o.verbose {
		level = "debug"
	}

	logger := logging.New(logging.Config{
		Name:   "excel",
		Level:  level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	logger.Debug("configuration loaded", "functions", cfg.Formula.Functions, "delimiter", cfg.CSV.Delimiter)

	return cfg, logger, nil
}

// shownError marks an error the command already reported on its output
type shownError struct {
	err error
}

func (e *shownError) Error() string { return e.err.Error() }

func (e *shownError) Unwrap() error { return e.err }

func printError(cmd *cobra.Command, err error) {
	fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: "+err.Error()))
}
