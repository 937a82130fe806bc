package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eduseva-cli/internal/auth"

	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session, document and API status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			// Session
			switch session, err := app.Session.Load(); {
			case err == nil:
				who := session.Email
				if who == "" {
					who = "(token only)"
				}
				fmt.Fprintf(out, "Logged in as %s, session expires %s\n", who, session.ExpiresAt.Format("2006-01-02 15:04"))
			case errors.Is(err, auth.ErrSessionExpired):
				fmt.Fprintln(out, "Session expired; run 'eduseva login'")
			default:
				if app.Config.API.Token != "" {
					fmt.Fprintln(out, "Using API token from environment")
				} else {
					fmt.Fprintln(out, "Not logged in")
				}
			}

			// Active document
			if doc, ok := app.Study.ActiveDocument(ctx); ok {
				renderDocument(out, doc)
			} else {
				fmt.Fprintln(out, "No active document; run 'eduseva upload <file.pdf>'")
			}

			// API reachability
			healthCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if health, err := app.Client.Health(healthCtx); err != nil {
				fmt.Fprintf(out, "API: unreachable (%v)\n", err)
			} else {
				fmt.Fprintf(out, "API: %s", health.Status)
				if health.Version != "" {
					fmt.Fprintf(out, " (version %s)", health.Version)
				}
				fmt.Fprintln(out)
			}

			return nil
		},
	}
}
