package cli

import (
	"fmt"
	"io"

	"eduseva-cli/internal/model"

	"github.com/spf13/cobra"
)

func newMindmapCmd(app *App) *cobra.Command {
	var (
		regenerate bool
		export     string
	)

	cmd := &cobra.Command{
		Use:   "mindmap",
		Short: "Generate a mindmap of the active document",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireLogin(); err != nil {
				return err
			}
			if err := app.requireDocument(ctx); err != nil {
				return err
			}

			var (
				m   model.Mindmap
				err error
			)
			if regenerate {
				m, err = app.Study.Mindmap.Regenerate(ctx)
			} else {
				m, err = app.Study.Mindmap.Load(ctx)
			}
			if err != nil {
				return err
			}

			renderMindmap(cmd.OutOrStdout(), m)

			if export != "" {
				if err := exportTo(export, func(w io.Writer) { renderMindmap(w, m) }); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", export)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&regenerate, "regenerate", false, "skip the cache and generate a fresh mindmap")
	cmd.Flags().StringVar(&export, "export", "", "also write the mindmap to a markdown file")
	return cmd
}
