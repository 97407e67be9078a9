// Package cli is the command-line surface over the scheduling core.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/examdesk/examdesk-core/config"
	"github.com/examdesk/examdesk-core/internal/application/auth"
	"github.com/examdesk/examdesk-core/internal/application/directory"
	"github.com/examdesk/examdesk-core/internal/application/examview"
	"github.com/examdesk/examdesk-core/internal/application/rosterimport"
	"github.com/examdesk/examdesk-core/internal/domain/identity"
	"github.com/examdesk/examdesk-core/internal/infrastructure/external/schedapi"
	"github.com/examdesk/examdesk-core/internal/infrastructure/persistence/redis"
	"github.com/examdesk/examdesk-core/internal/infrastructure/persistence/sessionfile"
	"github.com/examdesk/examdesk-core/pkg/logger"
)

var (
	serverURL string
	debug     bool
)

// app bundles the wired services behind every command.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	client    *schedapi.Client
	sessions  *auth.SessionStore
	gate      *auth.Gate
	exams     *examview.Query
	examEdits *examview.Command
	imports   *rosterimport.Pipeline
	directory *directory.Service
	closeFn   func() error
}

func (a *app) close() {
	if a.closeFn != nil {
		_ = a.closeFn()
	}
}

// buildApp loads config and wires the full dependency graph. Every
// command calls it in RunE so flag overrides are already applied.
func buildApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.API.BaseURL = serverURL
	}
	if debug {
		cfg.App.Debug = true
		cfg.Observability.LogLevel = "debug"
	}

	log := logger.New(os.Stderr, logger.ParseLevel(cfg.Observability.LogLevel))

	clientCfg := schedapi.DefaultClientConfig(cfg.API.BaseURL)
	clientCfg.Timeout = cfg.API.RequestTimeout
	clientCfg.RateLimiterConfig = schedapi.RateLimiterConfig{
		RequestsPerSecond: cfg.API.RateLimit,
		BurstSize:         cfg.API.RateLimitBurst,
		WaitTimeout:       cfg.API.RateLimitWait,
	}
	clientCfg.Debug = cfg.App.Debug
	clientCfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(cfg.Observability.LogLevel),
	}))
	client := schedapi.NewClient(clientCfg)

	storage, closeFn, err := buildStorage(cfg)
	if err != nil {
		return nil, err
	}

	sessions := auth.NewSessionStore(client, storage, log)
	sessions.Rehydrate(cmd.Context())
	gate := auth.NewGate(sessions)

	return &app{
		cfg:       cfg,
		log:       log,
		client:    client,
		sessions:  sessions,
		gate:      gate,
		exams:     examview.NewQuery(client, sessions, gate, log),
		examEdits: examview.NewCommand(client, sessions, gate, log),
		imports:   rosterimport.NewPipeline(client, sessions, gate, log),
		directory: directory.NewService(client, sessions, gate, log),
		closeFn:   closeFn,
	}, nil
}

func buildStorage(cfg *config.Config) (identity.SessionStorage, func() error, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		store, err := redis.New(redis.Config{
			URL:          cfg.Redis.URL,
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			KeyPrefix:    cfg.Redis.KeyPrefix,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("redis session backend: %w", err)
		}
		return store, store.Close, nil
	default:
		store, err := sessionfile.New(cfg.Session.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("file session backend: %w", err)
		}
		return store, nil, nil
	}
}

func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var rootCmd = &cobra.Command{
	Use:   "examdesk",
	Short: "Exam scheduling client",
	Long: `examdesk is the command-line client of the exam scheduling service.
It manages the local session, lists and edits exam requests scoped to
your role, and imports student and secretary rosters in bulk.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "scheduling API base URL (overrides EXAMDESK_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(examsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(cadreCmd)
	rootCmd.AddCommand(refCmd)
}
