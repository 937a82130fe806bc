package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App) *cobra.Command {
	var (
		regenerate bool
		export     string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Generate a summary of the active document",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireLogin(); err != nil {
				return err
			}
			if err := app.requireDocument(ctx); err != nil {
				return err
			}

			var (
				summary string
				err     error
			)
			if regenerate {
				summary, err = app.Study.Summary.Regenerate(ctx)
			} else {
				summary, err = app.Study.Summary.Load(ctx)
			}
			if err != nil {
				return err
			}

			renderSummary(cmd.OutOrStdout(), summary)

			if export != "" {
				if err := exportTo(export, func(w io.Writer) { renderSummary(w, summary) }); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", export)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&regenerate, "regenerate", false, "skip the cache and generate a fresh summary")
	cmd.Flags().StringVar(&export, "export", "", "also write the summary to a markdown file")
	return cmd
}
