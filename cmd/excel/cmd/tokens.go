package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/efp"

	"github.com/jdpolicano/excel/packages/formula"
)

func newTokensCmd(opts *rootOptions) *cobra.Command {
	var withEFP bool

	cmd := &cobra.Command{
		Use:   "tokens <formula>",
		Short: "Print the token stream of a formula",
		Long: `tokens prints what the lexer produces for the formula body (the text
after '='). With --efp the tokenization of the xuri/efp Excel formula
parser is printed as well, which is handy when a formula is rejected.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := opts.load(cmd); err != nil {
				return err
			}

			input := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			writeTokens(out, input)
			if withEFP {
				fmt.Fprintln(out)
				writeEFPTokens(out, input)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withEFP, "efp", false, "also print the xuri/efp tokenization")
	return cmd
}

// writeTokens lists the lexer tokens with positions in the full input
func writeTokens(w io.Writer, input string) {
	body, offset := strings.CutPrefix(input, "=")
	shift := 0
	if offset {
		shift = 1
	}

	fmt.Fprintln(w, HeaderStyle.Render("lexer"))
	for _, tok := range formula.NewLexer(body).Tokenize() {
		fmt.Fprintf(w, "%4d  %-15s %s\n", tok.Pos+shift, tok.Type, ValueStyle.Render(tok.Value))
	}
}

func writeEFPTokens(w io.Writer, input string) {
	fmt.Fprintln(w, HeaderStyle.Render("efp"))

	parser := efp.ExcelParser()
	for _, tok := range parser.Parse(input) {
		fmt.Fprintf(w, "      %-15s %-12s %s\n", tok.TType, tok.TSubType, ValueStyle.Render(tok.TValue))
	}
}
