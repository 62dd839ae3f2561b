package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jdpolicano/excel/packages/formula"
)

const (
	historyFile = ".excel_history"
	promptMain  = "formula> "
)

func newReplCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse formulas interactively",
		Long: `repl reads formulas line by line and prints their syntax trees.

Commands:
  :functions    list the recognised function names
  :tokens <f>   print the token stream of a formula
  :canon <f>    print the canonical form of a formula
  :quit         leave (Ctrl+D works too)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return runRepl(cmd.OutOrStdout(), cfg.FunctionSet())
		},
	}
}

func runRepl(out io.Writer, functions formula.FunctionSet) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	// history is best-effort
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			break
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		if quit := evalReplLine(out, line, functions); quit {
			break
		}
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return nil
}

// evalReplLine handles one line of input, returning true on :quit
func evalReplLine(out io.Writer, line string, functions formula.FunctionSet) bool {
	line = strings.TrimSpace(line)

	if strings.HasPrefix(line, ":") {
		command, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch command {
		case ":quit", ":q", ":exit":
			return true
		case ":functions":
			fmt.Fprintln(out, strings.Join(functions.Names(), " "))
		case ":tokens":
			writeTokens(out, rest)
		case ":canon":
			node, err := formula.Parse(rest, functions)
			if err != nil {
				renderParseError(out, rest, err)
				return false
			}
			fmt.Fprintln(out, node.ToString())
		default:
			fmt.Fprintln(out, ErrorStyle.Render("unknown command "+command))
		}
		return false
	}

	// a bare expression is treated as a formula body
	if !strings.HasPrefix(line, "=") {
		line = "=" + line
	}

	node, err := formula.Parse(line, functions)
	if err != nil {
		renderParseError(out, line, err)
		return false
	}
	renderTree(out, node)
	return false
}
