package cli

import (
	"fmt"
	"io"

	"eduseva-cli/internal/model"

	"github.com/spf13/cobra"
)

func newFlashcardsCmd(app *App) *cobra.Command {
	var (
		count      int
		regenerate bool
		export     string
	)

	cmd := &cobra.Command{
		Use:   "flashcards",
		Short: "Generate flashcards for the active document",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireLogin(); err != nil {
				return err
			}
			if err := app.requireDocument(ctx); err != nil {
				return err
			}

			app.Study.Flashcards.Configure(count)

			var (
				cards []model.Flashcard
				err   error
			)
			if regenerate {
				cards, err = app.Study.Flashcards.Regenerate(ctx)
			} else {
				cards, err = app.Study.Flashcards.Load(ctx)
			}
			if err != nil {
				return err
			}

			renderFlashcards(cmd.OutOrStdout(), cards)

			if export != "" {
				if err := exportTo(export, func(w io.Writer) { renderFlashcards(w, cards) }); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", export)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "how many cards to request (0 lets the server decide)")
	cmd.Flags().BoolVar(&regenerate, "regenerate", false, "skip the cache and generate fresh cards")
	cmd.Flags().StringVar(&export, "export", "", "also write the cards to a markdown file")
	return cmd
}
