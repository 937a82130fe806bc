package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"eduseva-cli/internal/cache"
	"eduseva-cli/internal/model"
	"eduseva-cli/internal/podcast"

	"github.com/spf13/cobra"
)

func newPodcastCmd(app *App) *cobra.Command {
	var (
		regenerate bool
		save       string
		feedOut    string
	)

	cmd := &cobra.Command{
		Use:   "podcast",
		Short: "Generate a podcast episode for the active document",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireLogin(); err != nil {
				return err
			}
			if err := app.requireDocument(ctx); err != nil {
				return err
			}

			var (
				episode model.Podcast
				err     error
			)
			if regenerate {
				episode, err = app.Study.Podcast.Regenerate(ctx)
			} else {
				episode, err = app.Study.Podcast.Load(ctx)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			renderPodcast(out, episode)

			if save != "" {
				if episode.AudioURL == "" {
					return fmt.Errorf("episode has no audio to save")
				}

				f, err := os.Create(save)
				if err != nil {
					return fmt.Errorf("failed to create audio file: %w", err)
				}
				defer f.Close()

				n, err := app.Client.DownloadAudio(ctx, episode.AudioURL, f)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Saved audio to %s (%d bytes)\n", save, n)
			}

			if feedOut != "" {
				input := podcast.FeedInput{
					Episode: episode,
					BaseURL: "http://" + app.Config.Serve.Addr,
				}
				if doc, ok := app.Study.ActiveDocument(ctx); ok {
					input.Document = doc
				}
				if info, ok := app.Cache.Stat(ctx, cache.KeyPodcast); ok {
					input.Generated = info.WrittenAt
				}

				rss, err := input.BuildRSS()
				if err != nil {
					return err
				}
				if err := os.WriteFile(feedOut, []byte(rss), 0o644); err != nil {
					return fmt.Errorf("failed to write feed: %w", err)
				}
				fmt.Fprintf(out, "Wrote feed to %s\n", feedOut)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&regenerate, "regenerate", false, "skip the cache and generate a fresh episode")
	cmd.Flags().StringVar(&save, "save", "", "download the episode audio to a file")
	cmd.Flags().StringVar(&feedOut, "out", "", "write the RSS feed XML to a file")
	cmd.AddCommand(newPodcastServeCmd(app))
	return cmd
}

func newPodcastServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the episode as an RSS feed for podcast players",
		Long: `Serve exposes the generated episode as a podcast RSS feed over
localhost. Point any podcast player at the feed URL; the audio route
proxies the upstream file with your credentials attached, so the player
never needs the API token. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLogin(); err != nil {
				return err
			}
			if err := app.requireDocument(cmd.Context()); err != nil {
				return err
			}

			cfg := app.Config.Serve
			srv := podcast.NewServer(podcast.ServerConfig{
				Addr:     cfg.Addr,
				Episodes: app.Study.Podcast,
				Audio:    app.Client,
				ActiveDocument: func(ctx context.Context) (*model.Document, bool) {
					return app.Study.ActiveDocument(ctx)
				},
				GeneratedAt: func(ctx context.Context) (time.Time, bool) {
					info, ok := app.Cache.Stat(ctx, cache.KeyPodcast)
					return info.WrittenAt, ok
				},
				ReadTimeout:     cfg.ReadTimeout,
				WriteTimeout:    cfg.WriteTimeout,
				ShutdownTimeout: cfg.ShutdownTimeout,
			})

			fmt.Fprintf(cmd.OutOrStdout(), "Serving podcast feed at http://%s/podcast/feed.xml (Ctrl-C to stop)\n", cfg.Addr)
			return srv.Run(cmd.Context())
		},
	}
}
