package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/tablature/syntax"
)

func newRawCmd() *cobra.Command {
	var showTokens bool
	var grammarFile string

	cmd := &cobra.Command{
		Use:   "raw <file>",
		Short: "Dump the raw syntax tree of a tablature file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			var tree *syntax.Tree
			if grammarFile != "" {
				grammar, err := loadGrammar(grammarFile)
				if err != nil {
					return err
				}
				tree = syntax.ParseWithGrammar(grammar, string(data))
			} else {
				tree = syntax.Parse(string(data))
			}

			out := cmd.OutOrStdout()
			if showTokens {
				for _, tok := range tree.Tokens {
					fmt.Fprintln(out, tok)
				}
				return nil
			}
			fmt.Fprint(out, tree.Root.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&showTokens, "tokens", false, "print tokens instead of the tree")
	cmd.Flags().StringVar(&grammarFile, "grammar", "", "token grammar to use instead of the built-in one")

	return cmd
}
