package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"rights-arcade/internal/app"
	"rights-arcade/internal/auth"
	"rights-arcade/internal/catalog"
	"rights-arcade/internal/config"
	"rights-arcade/internal/domain"
	"rights-arcade/internal/infra/memory"
	"rights-arcade/internal/infra/postgres"
	redisinfra "rights-arcade/internal/infra/redis"
	"rights-arcade/internal/infra/sqlite"
	transport "rights-arcade/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the arcade server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// services is everything a running server holds on to.
type services struct {
	progress *app.ProgressStore
	games    *app.GameService
	shell    *app.Shell
	prefs    *app.Preferences
	forum    *app.ForumService
	feedback *app.FeedbackService
	closers  []func() error
}

func (s *services) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Printf("close: %v", err)
		}
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	svc, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.close()

	api := transport.NewAPI(svc.shell, svc.progress, svc.prefs, svc.forum, svc.feedback)
	wsHandler := transport.NewWSHandler(svc.shell, svc.games)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(api, wsHandler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting rights arcade on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	if flushErr := svc.forum.Flush(shutdownCtx); flushErr != nil {
		log.Printf("flush forum: %v", flushErr)
	}
	return err
}

func buildServices(ctx context.Context, cfg config.Config) (*services, error) {
	svc := &services{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		svc.closers = append(svc.closers, redisClient.Close)
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	var db *bun.DB
	if cfg.Postgres.URL != "" {
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			svc.close()
			return nil, err
		}
		svc.closers = append(svc.closers, func() error { pool.Close(); return nil })
		db = postgres.Open(cfg.Postgres.URL)
		svc.closers = append(svc.closers, db.Close)
	}

	kv, err := openKVStore(ctx, cfg, redisClient)
	if err != nil {
		svc.close()
		return nil, err
	}
	if closer, ok := kv.(interface{ Close() error }); ok {
		svc.closers = append(svc.closers, closer.Close)
	}

	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(catalog.Catalogs())
	if pool != nil {
		loader = postgres.NewCatalogLoader(pool)
	}

	catalogTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var catalogs app.CatalogRepository
	if redisClient != nil {
		catalogs = redisinfra.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalogs = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, redisTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	modes := applyGameConfig(catalog.Modes(), cfg)
	ids := make([]domain.ModeID, len(modes))
	for i, m := range modes {
		ids[i] = m.ID
	}

	svc.progress = app.NewProgressStore(kv, ids)
	svc.games = app.NewGameService(sessions, catalogs, svc.progress, modes,
		config.TTLDuration(cfg.Game.TickInterval, time.Second))
	svc.shell = app.NewShell(svc.games, svc.progress)
	svc.prefs = app.NewPreferences(kv)
	svc.forum = app.NewForumService(kv, config.TTLDuration(cfg.Forum.FlushDelay, time.Second))

	var users auth.UserStore = memory.NewUserStore()
	var docs app.DocumentStore = memory.NewDocumentStore()
	if db != nil {
		users = postgres.NewUserStore(db)
		docs = postgres.NewDocumentStore(db)
	}
	if cfg.Auth.Secret == "" {
		log.Printf("auth.secret not set; tokens will not survive a restart")
		cfg.Auth.Secret = fmt.Sprintf("dev-%d", time.Now().UnixNano())
	}
	identity := auth.NewService(users, docs, auth.Config{
		Secret:   cfg.Auth.Secret,
		TokenTTL: config.TTLDuration(cfg.Auth.TokenTTL, 72*time.Hour),
	})
	svc.feedback = app.NewFeedbackService(identity, docs)
	return svc, nil
}

func openKVStore(ctx context.Context, cfg config.Config, redisClient *redis.Client) (app.KVStore, error) {
	switch cfg.Storage.Driver {
	case "", "memory":
		return memory.NewKVStore(), nil
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("storage driver redis needs redis.addr")
		}
		return redisinfra.NewKVStore(redisClient), nil
	case "sqlite":
		path := cfg.Storage.SQLitePath
		if path == "" {
			path = "data/progress.db"
		}
		return sqlite.Open(ctx, path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// applyGameConfig lets game.sample_size and game.countdown override the
// built-in timed modes. Untimed and whole-catalog modes keep their zero values.
func applyGameConfig(modes []domain.ModeSpec, cfg config.Config) []domain.ModeSpec {
	out := make([]domain.ModeSpec, len(modes))
	for i, m := range modes {
		if m.SampleSize > 0 && cfg.Game.SampleSize > 0 {
			m.SampleSize = cfg.Game.SampleSize
		}
		if m.Countdown > 0 && cfg.Game.Countdown > 0 {
			m.Countdown = cfg.Game.Countdown
		}
		out[i] = m
	}
	return out
}
