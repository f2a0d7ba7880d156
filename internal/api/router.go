package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/openloom/workspace-chat/internal/api/handler"
	custommw "github.com/openloom/workspace-chat/internal/api/middleware"
	"github.com/openloom/workspace-chat/internal/chat"
	"github.com/openloom/workspace-chat/internal/config"
	"github.com/openloom/workspace-chat/internal/domain"
	"github.com/openloom/workspace-chat/internal/llm"
	"github.com/openloom/workspace-chat/internal/llm/anthropic"
	"github.com/openloom/workspace-chat/internal/llm/gemini"
	"github.com/openloom/workspace-chat/internal/llm/ollama"
	"github.com/openloom/workspace-chat/internal/llm/openai"
	"github.com/openloom/workspace-chat/internal/repository"
	"github.com/openloom/workspace-chat/internal/repository/redis"
	"github.com/openloom/workspace-chat/internal/security"
	"github.com/openloom/workspace-chat/internal/service"
	"github.com/openloom/workspace-chat/internal/telemetry"
)

// NewRouter creates and configures the HTTP router. redisClient may be nil
// when the request rate limiter is disabled.
func NewRouter(cfg *config.Config, store *repository.Store, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommw.Logger)
	r.Use(middleware.Recoverer)

	// CORS. Streaming responses are consumed cross-origin by embedded
	// clients, so the event endpoints stay wide open.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	llmRouter := newLLMRouter(cfg)

	// Services
	engine := chat.NewEngine(llmRouter, store.Messages)
	quota := service.NewQuotaGate(
		store.Messages,
		cfg.Auth.MultiUser,
		cfg.Quota.Window,
		cfg.Quota.DefaultDailyLimit,
	)
	workspaceService := service.NewWorkspaceService(store.Workspaces)
	threadService := service.NewThreadService(store.Threads)
	authService := service.NewAuthService(store.Users, jwtManager)
	eventLogService := service.NewEventLogService(store.EventLogs)
	telemetryClient := telemetry.NewClient(cfg.Telemetry, cfg.LLM.DefaultProvider)
	chatService := service.NewChatService(
		engine,
		quota,
		threadService,
		telemetryClient,
		eventLogService,
		cfg.Auth.MultiUser,
	)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService)
	threadHandler := handler.NewThreadHandler(threadService)
	chatHandler := handler.NewChatHandler(chatService)

	authMiddleware := custommw.NewAuthMiddleware(jwtManager, store.Users, cfg.Auth.MultiUser)

	// Health check
	r.Get("/health", handler.HealthCheck)
	r.Get("/ready", handler.ReadyCheck(store))

	// Auth routes (public, multi-user only in practice)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		if redisClient != nil {
			rateLimiter := redis.NewRateLimiter(
				redisClient,
				cfg.Quota.RateLimitPerMin,
				cfg.Quota.RateLimitBurst,
			)
			r.Use(custommw.NewRateLimitMiddleware(rateLimiter).Limit)
		}

		r.Get("/llm-providers", handler.ListLLMProviders(llmRouter))

		manageOnly := authMiddleware.RequireRole(domain.RoleAdmin, domain.RoleManager)

		r.Route("/workspace", func(r chi.Router) {
			r.Get("/", workspaceHandler.List)
			r.With(manageOnly).Post("/", workspaceHandler.Create)

			r.Route("/{slug}", func(r chi.Router) {
				r.Use(custommw.WorkspaceContext(workspaceService))

				r.Get("/", workspaceHandler.Get)
				r.With(manageOnly).Patch("/", workspaceHandler.Update)
				r.With(manageOnly).Delete("/", workspaceHandler.Delete)

				r.Post("/stream-chat", chatHandler.StreamWorkspaceChat)

				r.Route("/thread", func(r chi.Router) {
					r.Get("/", threadHandler.List)
					r.Post("/", threadHandler.Create)

					r.Route("/{threadSlug}", func(r chi.Router) {
						r.Use(custommw.ThreadContext(threadService))

						r.Get("/", threadHandler.Get)
						r.Patch("/", threadHandler.Update)
						r.Delete("/", threadHandler.Delete)

						r.Post("/stream-chat", chatHandler.StreamThreadChat)
					})
				})
			})
		})
	})

	return r
}

func newLLMRouter(cfg *config.Config) *llm.Router {
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)

	log.Info().Str("default", cfg.LLM.DefaultProvider).Msg("initializing LLM providers")

	if cfg.LLM.Ollama.Host != "" {
		llmRouter.RegisterProvider(ollama.NewProvider(cfg.LLM.Ollama.Host, cfg.LLM.Ollama.DefaultModel))
	}
	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
	}
	if cfg.LLM.Anthropic.APIKey != "" {
		llmRouter.RegisterProvider(anthropic.NewProvider(cfg.LLM.Anthropic.APIKey, cfg.LLM.Anthropic.Model))
	}
	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini.APIKey, cfg.LLM.Gemini.Model))
	}

	if len(llmRouter.ListProviders()) == 0 {
		log.Warn().Msg("no LLM providers configured, chat requests will fail")
	}

	return llmRouter
}
