package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"chatforge/internal/api"
	"chatforge/internal/api/handlers"
	"chatforge/internal/llm"
	"chatforge/internal/repository"
	"chatforge/internal/search"
	"chatforge/internal/service"
	"chatforge/pkg/auth"
	"chatforge/pkg/cache"
	"chatforge/pkg/config"
	"chatforge/pkg/logger"
	"chatforge/pkg/postgres"

	"go.uber.org/zap"
)

// @title Chatforge API
// @version 1.0
// @description Retrieval-augmented chat orchestration service

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting chatforge service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize cache; a missing Redis degrades to a process-local cache
	// rather than blocking startup
	var cacheClient cache.Cache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			appLogger.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
			cacheClient = cache.NewMemoryCache()
		} else {
			defer redisCache.Close()
			cacheClient = redisCache
		}
	} else {
		cacheClient = cache.NewMemoryCache()
	}

	// Initialize repositories
	chatbotRepo := repository.NewChatbotRepository(db, appLogger)
	settingsRepo := repository.NewSettingsRepository(db, appLogger)
	convRepo := repository.NewConversationRepository(db, appLogger)
	msgRepo := repository.NewMessageRepository(db, appLogger)
	metricsRepo := repository.NewMetricsRepository(db, appLogger)

	// Initialize provider clients; the configured default model decides
	// which one is primary
	anthropicClient := llm.NewAnthropicClient(&cfg.Anthropic, appLogger)
	openaiClient := llm.NewOpenAIClient(&cfg.OpenAI, appLogger)

	primary := llm.Provider(anthropicClient)
	secondary := llm.Provider(openaiClient)
	fallbackModel := cfg.OpenAI.FallbackModel
	if !strings.HasPrefix(cfg.Chat.DefaultModel, "claude") {
		primary, secondary = openaiClient, anthropicClient
		fallbackModel = cfg.Anthropic.FallbackModel
	}

	// Initialize services
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey)
	accessService := service.NewAccessService(jwtManager, &cfg.Access, appLogger)
	settingsService := service.NewSettingsService(settingsRepo, cacheClient, cfg.Retrieval.EmbeddingModel, appLogger)
	searchClient := search.NewClient(&cfg.Retrieval, appLogger)
	retrievalService := service.NewRetrievalService(searchClient, cacheClient, appLogger)
	completionService := service.NewCompletionService(primary, secondary, fallbackModel, cfg.Chat.CompletionTimeout, appLogger)
	conversationService := service.NewConversationService(convRepo, msgRepo, appLogger)
	metricsService := service.NewMetricsService(metricsRepo, appLogger)

	chatService := service.NewChatService(
		accessService,
		chatbotRepo,
		settingsService,
		retrievalService,
		completionService,
		conversationService,
		metricsService,
		cfg.Chat.DefaultModel,
		cfg.Chat.MaxTokens,
		cfg.Chat.Temperature,
		appLogger,
	)

	// Initialize handlers
	chatHandler := handlers.NewChatHandler(chatService, appLogger)
	conversationHandler := handlers.NewConversationHandler(conversationService, accessService, appLogger)
	healthHandler := handlers.NewHealthHandler(db, appLogger)

	// Setup router
	app := api.SetupRouter(chatHandler, conversationHandler, healthHandler)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
