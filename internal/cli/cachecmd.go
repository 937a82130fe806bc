package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"eduseva-cli/internal/cache"

	"github.com/spf13/cobra"
)

func newCacheCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the artifact cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show what is cached per slot",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "SLOT\tSTATE\tAGE\tEXPIRES IN\tSIZE")

				for _, key := range cache.Registry() {
					info, ok := app.Cache.Stat(ctx, key)
					if !ok {
						fmt.Fprintf(tw, "%s\tempty\t-\t-\t-\n", key)
						continue
					}

					expires := "never"
					if info.TTL > 0 {
						expires = (info.TTL - info.Age()).Truncate(time.Second).String()
					}
					fmt.Fprintf(tw, "%s\tcached\t%s\t%s\t%dB\n", key, info.Age(), expires, info.Size)
				}

				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Drop every cached artifact",
			Long: `Clear wipes all cache slots. The next use of each feature will
generate fresh. The login session is not touched.`,
			RunE: func(cmd *cobra.Command, args []string) error {
				app.Cache.Clear(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "purge",
			Short: "Drop only expired entries",
			RunE: func(cmd *cobra.Command, args []string) error {
				purged := app.Cache.PurgeExpired(cmd.Context())
				fmt.Fprintf(cmd.OutOrStdout(), "Purged %d expired entries.\n", purged)
				return nil
			},
		},
	)

	return cmd
}
