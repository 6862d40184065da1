package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"trivia-skill/internal/config"
	"trivia-skill/internal/game"
	"trivia-skill/internal/infra/csvfile"
	"trivia-skill/internal/infra/memory"
	pgsource "trivia-skill/internal/infra/postgres"
	redisinfra "trivia-skill/internal/infra/redis"
	transport "trivia-skill/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia skill server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
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

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var source memory.QuestionSource = memory.NewStaticSource(sampleQuestionSet())
	switch {
	case pool != nil:
		source = pgsource.NewSource(pool)
	case cfg.Quiz.CSVPath != "":
		source = csvfile.NewSource(cfg.Quiz.CSVPath)
	}

	bank, err := memory.NewQuestionBank(ctx, source, config.Duration(cfg.Quiz.ReloadInterval, 0))
	if err != nil {
		return err
	}

	var ledger game.ScoreLedger = memory.NewScoreLedger()
	if redisClient != nil {
		ledger = redisinfra.NewScoreLedger(redisClient)
	}

	var registry game.SessionRegistry = game.NewRegistry()
	if redisClient != nil {
		sessionTTL := config.Duration(cfg.Redis.TTL, 10*time.Minute)
		registry = redisinfra.NewSessionRegistry(registry, redisClient, sessionTTL)
	}

	var notifier game.Notifier
	if cfg.Notify.EventAPIURL != "" {
		notifier = transport.NewEventAPINotifier(cfg.Notify.EventAPIURL, config.Duration(cfg.Notify.Timeout, 0))
	}

	manager := game.NewManager(game.Config{
		Registry:     registry,
		Bank:         bank,
		Ledger:       ledger,
		Notifier:     notifier,
		MaxRounds:    cfg.Game.MaxRounds,
		RoundTimeout: config.Duration(cfg.Game.RoundTimeout, game.DefaultRoundTimeout),
	})

	botHandler := transport.NewBotHandler(manager, bank)
	watchHandler := transport.NewWatchHandler(manager)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("/skill", transport.RequireHeader(cfg.Auth.HeaderKey, cfg.Auth.HeaderValue,
		http.HandlerFunc(botHandler.ServeBotRequest)))
	mux.HandleFunc("/watch", watchHandler.ServeWatch)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trivia skill server on :%s", finalPort)
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
	return server.Shutdown(shutdownCtx)
}
