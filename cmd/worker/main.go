package main

import (
	"context"
	"os"

	"github.com/converso/chat-api/internal/config"
	"github.com/converso/chat-api/internal/repository/mongo"
	"github.com/converso/chat-api/internal/workflow"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Logging)

	log.Info().
		Str("queue", cfg.Workflow.Queue).
		Int("concurrency", cfg.Workflow.Concurrency).
		Msg("Starting workflow worker")

	// Initialize database
	db, err := mongo.NewDB(context.Background(), cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer db.Close(context.Background())

	sessionRepo := mongo.NewSessionRepository(db)
	messageRepo := mongo.NewMessageRepository(db)
	wfHandler := workflow.NewHandler(messageRepo, sessionRepo, cfg.Workflow.WebhookURL)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Workflow.Concurrency,
			Queues:      map[string]int{cfg.Workflow.Queue: 1},
		},
	)

	mux := asynq.NewServeMux()
	wfHandler.Register(mux)

	// Run blocks until SIGINT/SIGTERM
	if err := srv.Run(mux); err != nil {
		log.Fatal().Err(err).Msg("Worker failed")
	}

	log.Info().Msg("Worker stopped")
}

func setupLogger(cfg config.LoggingConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if level, err := zerolog.ParseLevel(cfg.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if cfg.File != "" {
		writer, err := rotatelogs.New(cfg.File)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open rotating log file")
		}
		log.Logger = log.Output(writer)
		return
	}

	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
