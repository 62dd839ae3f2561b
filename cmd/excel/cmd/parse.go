package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jdpolicano/excel/packages/formula"
)

func newParseCmd(opts *rootOptions) *cobra.Command {
	var canonical bool

	cmd := &cobra.Command{
		Use:   "parse <formula>",
		Short: "Print the syntax tree of a formula",
		Example: `  excel parse '=IF(GREATER(A1,B1),SUM(A1,B1),0)'
  excel parse --canonical '= 1 + 2'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}

			// unquoted shell arguments arrive split on spaces
			input := strings.Join(args, " ")
			logger.Debug("parsing formula", "input", input)

			node, err := formula.Parse(input, cfg.FunctionSet())
			if err != nil {
				renderParseError(cmd.OutOrStdout(), input, err)
				return &shownError{err: err}
			}

			if canonical {
				fmt.Fprintln(cmd.OutOrStdout(), node.ToString())
				return nil
			}
			renderTree(cmd.OutOrStdout(), node)
			return nil
		},
	}

	cmd.Flags().BoolVar(&canonical, "canonical", false, "print the canonical formula text instead of the tree")
	return cmd
}
