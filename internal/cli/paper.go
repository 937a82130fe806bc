package cli

import (
	"fmt"
	"io"

	"eduseva-cli/internal/api"

	"github.com/spf13/cobra"
)

func newPaperCmd(app *App) *cobra.Command {
	var (
		marks    int
		duration string
		export   string
	)

	cmd := &cobra.Command{
		Use:   "paper",
		Short: "Generate an exam-style question paper",
		Long: `Paper generates an exam-style question paper for the active
document. Papers are one-shot: the generated paper is shown, optionally
exported, and then discarded, so every run produces a fresh paper.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireLogin(); err != nil {
				return err
			}
			if err := app.requireDocument(ctx); err != nil {
				return err
			}

			app.Study.Paper.Configure(api.PaperOptions{TotalMarks: marks, Duration: duration})

			// The paper is discarded once shown, so a crash mid-render
			// still leaves no stale paper behind.
			defer app.Study.Paper.Discard(ctx)

			paper, err := app.Study.Paper.Load(ctx)
			if err != nil {
				return err
			}

			renderPaper(cmd.OutOrStdout(), paper)

			if export != "" {
				if err := exportTo(export, func(w io.Writer) { renderPaper(w, paper) }); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", export)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&marks, "marks", 0, "total marks (0 lets the server decide)")
	cmd.Flags().StringVar(&duration, "duration", "", `exam duration, e.g. "3 hours" (empty lets the server decide)`)
	cmd.Flags().StringVar(&export, "export", "", "also write the paper to a markdown file")
	return cmd
}
