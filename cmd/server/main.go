package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codecoach/internal/api"
	"codecoach/internal/app/service"
	"codecoach/internal/common/security"
	"codecoach/internal/domain/repository"
	"codecoach/internal/platform/cache"
	"codecoach/internal/platform/config"
	"codecoach/internal/platform/database"
	"codecoach/internal/platform/gemini"
	"codecoach/internal/platform/piston"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if err := database.EnsureSchema(context.Background(), db); err != nil {
		logger.Fatal("schema bootstrap failed", zap.Error(err))
	}
	logger.Info("database connected")

	// Redis backs the login limiter and the recent-problem cache. Both fail
	// open, so a missing redis only costs those features.
	var limiter *service.LoginLimiter
	var problemCache *service.ProblemCache
	rdb, err := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis unavailable, login limiter and problem cache disabled", zap.Error(err))
	} else {
		defer rdb.Close()
		limiter = service.NewLoginLimiter(rdb, cfg.LoginFailLimit, cfg.LoginFailWindow, logger)
		problemCache = service.NewProblemCache(rdb, logger)
		logger.Info("redis connected")
	}

	tokens := security.NewTokenIssuer(cfg.SecretKey, cfg.TokenTTL)

	// One conversational session for the process lifetime; the session lock
	// keeps concurrent requests from interleaving their prompts.
	modelClient := gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	modelSession := gemini.NewSession(modelClient)

	sandbox := piston.NewClient(cfg.PistonURL, logger)

	userRepo := repository.NewPgUserRepository(db)
	authService := service.NewAuthService(userRepo, tokens, limiter, logger)
	problemService := service.NewProblemService(modelSession, problemCache, logger)
	executionService := service.NewExecutionService(sandbox, logger)
	suggestionService := service.NewSuggestionService(modelSession, logger)

	router := api.NewRouter(tokens, authService, problemService, executionService, suggestionService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second, // model calls are slow
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("port", cfg.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-stop // Wait for interrupt signal

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped gracefully")
}
