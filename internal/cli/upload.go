package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUploadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.pdf>",
		Short: "Upload a PDF and make it the active document",
		Long: `Upload sends a PDF to the API, replacing the active document.
All cached artifacts belong to the previous document, so a successful
upload clears the whole cache. A failed upload leaves it untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLogin(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Uploading %s...\n", args[0])

			doc, err := app.Study.Upload(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Upload complete. Cached artifacts from the previous document were cleared.")
			renderDocument(out, doc)
			fmt.Fprintln(out, "Try 'eduseva chat' to start asking questions.")
			return nil
		},
	}
}
