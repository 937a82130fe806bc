package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCmd(app *App) *cobra.Command {
	var export string

	cmd := &cobra.Command{
		Use:   "chat [question]",
		Short: "Ask questions about the active document",
		Long: `Chat starts a question-answer session about the active document.
With a question argument it asks once and exits; without one it opens
an interactive session. Each session starts fresh: the transcript of
the previous session is discarded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireLogin(); err != nil {
				return err
			}
			if err := app.requireDocument(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			app.Study.Chat.Start(ctx)

			// One-shot mode.
			if len(args) == 1 {
				answer, err := app.Study.Chat.Ask(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, answer)
				return exportTranscript(app, export)
			}

			fmt.Fprintln(out, "Chat session started. Type a question, or \"exit\" to leave.")

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					break
				}

				question := strings.TrimSpace(scanner.Text())
				if question == "" {
					continue
				}
				if question == "exit" || question == "quit" {
					break
				}

				answer, err := app.Study.Chat.Ask(ctx, question)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					continue
				}
				fmt.Fprintf(out, "\n%s\n\n", answer)
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			fmt.Fprintln(out, "Session ended.")
			return exportTranscript(app, export)
		},
	}

	cmd.Flags().StringVar(&export, "export", "", "write the transcript to a markdown file on exit")
	return cmd
}

func exportTranscript(app *App, path string) error {
	if path == "" {
		return nil
	}
	history := app.Study.Chat.History()
	return exportTo(path, func(w io.Writer) {
		renderChatHistory(w, history)
	})
}
