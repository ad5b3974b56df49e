package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dhamidi/tablature/format"
	"github.com/dhamidi/tablature/workspace"
)

func newWatchCmd() *cobra.Command {
	var printTree bool

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Reparse a tablature file incrementally whenever it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read %s: %w", filename, err)
			}

			out := cmd.OutOrStdout()
			doc := workspace.NewDocument(filename, string(data), settings.Budget)
			report(out, cmd.ErrOrStderr(), doc, printTree)

			w, err := workspace.NewWatcher(filename, settings.Watch.Debounce)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			err = w.Run(ctx, func(path string) {
				data, err := os.ReadFile(path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "read %s: %s\n", path, err)
					return
				}
				doc.Replace(string(data))
				report(out, cmd.ErrOrStderr(), doc, printTree)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&printTree, "print", "p", false, "print the tree after every parse")

	return cmd
}

func report(out, errOut io.Writer, doc *workspace.Document, printTree bool) {
	tree := doc.Finish()
	reused, started := doc.Stats()
	segments := 0
	for _, f := range tree.Fragments {
		if f.HasContent() {
			segments++
		}
	}
	fmt.Fprintf(out, "%s v%d: %d segments, %d reused, %d parsed\n",
		doc.Name(), doc.Version(), segments, reused, started)
	if printTree {
		if err := format.NewTreeEncoder(out, doc.Text()).Encode(tree); err != nil {
			fmt.Fprintf(errOut, "print %s: %s\n", doc.Name(), err)
		}
	}
}
