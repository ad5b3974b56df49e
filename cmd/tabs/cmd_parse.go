package main

import (
	"bytes"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/tablature/format"
	"github.com/dhamidi/tablature/workspace"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var steps int

	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Parse tablature files and dump their syntax trees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			budget := settings.Budget
			if cmd.Flags().Changed("steps") {
				if steps <= 0 {
					return fmt.Errorf("--steps must be positive, got %d", steps)
				}
				budget.Steps = steps
			}

			outputs := make([]bytes.Buffer, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(runtime.GOMAXPROCS(0))
			for i, filename := range args {
				g.Go(func() error {
					data, err := os.ReadFile(filename)
					if err != nil {
						return fmt.Errorf("read %s: %w", filename, err)
					}
					doc := workspace.NewDocument(filename, string(data), budget)
					for !doc.Work(budget.Steps) {
						if err := ctx.Err(); err != nil {
							return err
						}
					}

					enc, err := format.NewEncoder(outputFormat, &outputs[i], doc.Text())
					if err != nil {
						return err
					}
					if err := enc.Encode(doc.Tree()); err != nil {
						return fmt.Errorf("encode %s: %w", filename, err)
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i := range outputs {
				if len(args) > 1 {
					fmt.Fprintf(out, "==> %s <==\n", args[i])
				}
				if _, err := outputs[i].WriteTo(out); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (json, tree)")
	cmd.Flags().IntVar(&steps, "steps", 0, "parse steps per slice (default from config)")

	return cmd
}
