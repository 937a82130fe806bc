package cli

import (
	"context"
	"fmt"
	"io"
	"log"

	"eduseva-cli/internal/api"
	"eduseva-cli/internal/auth"
	"eduseva-cli/internal/cache"
	"eduseva-cli/internal/config"
	"eduseva-cli/internal/study"
	"eduseva-cli/pkg/apierror"

	"github.com/spf13/cobra"
)

// App holds the wired dependencies commands operate on.
type App struct {
	Config  *config.Config
	Store   cache.Store
	Cache   *cache.Cache
	Session *auth.Manager
	Client  *api.Client
	Study   *study.Study

	verbose bool
}

// NewRootCmd builds the eduseva command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	root := &cobra.Command{
		Use:   "eduseva",
		Short: "Turn a PDF into study material from your terminal",
		Long: `EduSeva uploads a PDF and generates study artifacts for it:
chat answers, flashcards, quizzes, summaries, question papers, mindmaps
and podcasts. Generated artifacts are cached locally, so revisiting a
feature is instant until you upload a new document or regenerate.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.close()
		},
	}

	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "log API and cache activity")

	root.AddCommand(
		newUploadCmd(app),
		newChatCmd(app),
		newFlashcardsCmd(app),
		newQuizCmd(app),
		newSummaryCmd(app),
		newPaperCmd(app),
		newMindmapCmd(app),
		newPodcastCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newCacheCmd(app),
		newStatusCmd(app),
	)

	return root
}

// init loads configuration and wires the dependency graph. The cache
// backend comes from config; when it cannot be initialized the app
// degrades to an in-process cache instead of failing, since caching is
// best-effort by contract.
func (a *App) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.Config = cfg

	if !a.verbose && !cfg.App.Debug {
		log.SetOutput(io.Discard)
	}

	// Initialize cache store based on config
	var store cache.Store
	switch cfg.Cache.Backend {
	case "redis":
		redisStore, err := cache.NewRedisStore(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis cache unavailable: %v; continuing without persistent cache", err)
			store = cache.NewMemoryStore()
		} else {
			store = redisStore
		}
	case "sqlite":
		sqliteStore, err := cache.NewSQLiteStore(cfg.Cache.SQLitePath())
		if err != nil {
			log.Printf("Warning: SQLite cache unavailable: %v; continuing without persistent cache", err)
			store = cache.NewMemoryStore()
		} else {
			store = sqliteStore
		}
	case "memory":
		store = cache.NewMemoryStore()
	default: // file
		fileStore, err := cache.NewFileStore(cfg.Cache.CacheDir())
		if err != nil {
			log.Printf("Warning: file cache unavailable: %v; continuing without persistent cache", err)
			store = cache.NewMemoryStore()
		} else {
			store = fileStore
		}
	}
	a.Store = store
	a.Cache = cache.New(store, cfg.Cache.Namespace)

	a.Session = auth.NewManager(cfg.Session.Path())

	// A token from the environment wins over the stored session.
	tokenFn := func() string {
		if cfg.API.Token != "" {
			return cfg.API.Token
		}
		return a.Session.Token()
	}

	a.Client = api.New(api.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Transport: api.Chain(nil,
			api.RequestID(),
			api.UserAgent(cfg.App.UserAgent()),
			api.Auth(tokenFn),
			api.Logging(),
		),
	})

	a.Study = study.New(a.Client, a.Cache, cfg.Cache.TTL)
	return nil
}

// close releases the cache store.
func (a *App) close() {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			log.Printf("Warning: closing cache store: %v", err)
		}
	}
}

// requireLogin fails early with a friendly message when no credentials
// are available, instead of letting a generation call 401 later.
func (a *App) requireLogin() error {
	if a.Config.API.Token != "" {
		return nil
	}
	if a.Session.Token() == "" {
		return fmt.Errorf("not logged in; run 'eduseva login' first")
	}
	return nil
}

// requireDocument fails early when nothing has been uploaded yet, since
// every generation endpoint operates on the active document.
func (a *App) requireDocument(ctx context.Context) error {
	if _, ok := a.Study.ActiveDocument(ctx); !ok {
		return fmt.Errorf("no document uploaded yet; run 'eduseva upload <file.pdf>' first")
	}
	return nil
}

// ErrorHint suggests a follow-up action for err. Empty when there is
// nothing actionable; the entrypoint prints it under the error line.
func ErrorHint(err error) string {
	switch {
	case apierror.IsUnauthorized(err):
		return "The API rejected your token. Run 'eduseva login' to sign in again."
	case apierror.IsNotFound(err):
		return "The server has nothing for this document. Run 'eduseva upload <file.pdf>' and try again."
	default:
		return ""
	}
}
