package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"eduseva-cli/internal/auth"
	"eduseva-cli/internal/model"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(app *App) *cobra.Command {
	var (
		email string
		token string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the EduSeva API",
		Long: `Login exchanges your credentials for an API token and stores it.
With --token an existing token (issued by the identity provider) is
stored directly, without contacting the API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if token != "" {
				if !auth.ValidFormat(token) {
					return fmt.Errorf("that does not look like an EduSeva token (expected %q prefix)", auth.TokenPrefix)
				}
				if err := app.Session.Save(&model.Session{Token: token, Email: email}); err != nil {
					return err
				}
				fmt.Fprintln(out, "Token stored.")
				return nil
			}

			if email == "" {
				fmt.Fprint(out, "Email: ")
				scanner := bufio.NewScanner(cmd.InOrStdin())
				if !scanner.Scan() {
					return fmt.Errorf("no email given")
				}
				email = strings.TrimSpace(scanner.Text())
			}
			if email == "" {
				return fmt.Errorf("no email given")
			}

			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			session, err := app.Client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			if !auth.ValidFormat(session.Token) {
				return fmt.Errorf("the API returned an unusable token")
			}

			if err := app.Session.Save(session); err != nil {
				return err
			}

			fmt.Fprintf(out, "Logged in as %s.\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when omitted)")
	cmd.Flags().StringVar(&token, "token", "", "store an existing API token instead of logging in")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Long: `Logout removes the stored session. Cached artifacts stay: they
belong to the document, not the login.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

// readPassword reads the password without echo when stdin is a
// terminal, and as a plain line otherwise (pipes, scripts).
func readPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(raw), nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return "", fmt.Errorf("no password given")
	}
	return strings.TrimSpace(scanner.Text()), nil
}
