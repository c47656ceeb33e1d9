package api

import (
	"net/http"

	"github.com/converso/chat-api/internal/api/handler"
	customMiddleware "github.com/converso/chat-api/internal/api/middleware"
	"github.com/converso/chat-api/internal/config"
	"github.com/converso/chat-api/internal/repository/mongo"
	"github.com/converso/chat-api/internal/repository/redis"
	"github.com/converso/chat-api/internal/service"
	"github.com/converso/chat-api/internal/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *mongo.DB, redisClient *redis.Client, dispatcher workflow.Dispatcher) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize repositories
	sessionRepo := mongo.NewSessionRepository(db)
	messageRepo := mongo.NewMessageRepository(db)

	// Initialize rate limiter
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)

	// Initialize services
	sessionService := service.NewSessionService(sessionRepo, messageRepo)
	messageService := service.NewMessageService(messageRepo, sessionRepo, dispatcher)

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(sessionService)
	messageHandler := handler.NewMessageHandler(messageService)

	apiKeyMiddleware := customMiddleware.NewAPIKeyMiddleware(cfg.Auth.AdminAPIKey)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Message routes
		r.Route("/messages", func(r chi.Router) {
			r.Post("/", messageHandler.Create)
			r.Get("/", messageHandler.List)
			r.Put("/{messageID}", messageHandler.Update)
			r.Post("/bulk", messageHandler.CreateBulk)
		})

		// Session routes
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Get("/{sessionID}", sessionHandler.Get)

			// Listing requires the admin API key
			r.Group(func(r chi.Router) {
				r.Use(apiKeyMiddleware.Verify)
				r.Use(rateLimitMiddleware.Limit)
				r.Get("/", sessionHandler.List)
			})
		})
	})

	return r
}
