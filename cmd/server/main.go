package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tayyargsayer/projectgen/internal/chat"
	"github.com/tayyargsayer/projectgen/internal/config"
	"github.com/tayyargsayer/projectgen/internal/genai"
	applogger "github.com/tayyargsayer/projectgen/internal/logger"
	"github.com/tayyargsayer/projectgen/internal/metrics"
	"github.com/tayyargsayer/projectgen/internal/projects"
	"github.com/tayyargsayer/projectgen/internal/ratelimit"
	"github.com/tayyargsayer/projectgen/internal/storage/pg"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		// A missing API key is a deployment error. Refuse to start rather
		// than fail every generation request later.
		applogger.New(applogger.Config{}).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg := config.AppConfig

	logger := applogger.New(applogger.FromConfig(cfg.LogLevel, cfg.LogFormat))
	logger.Info("starting projectgen",
		"port", cfg.Port,
		"model", cfg.GeminiModel,
		"database_configured", cfg.DatabaseURL != "",
	)

	gin.SetMode(cfg.GinMode)

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		logger.Error("failed to load option catalog", "error", err)
		os.Exit(1)
	}

	aiClient := genai.NewClient(cfg, logger)

	projectService := projects.NewService(aiClient, catalog, cfg.GeminiModel, logger)

	sessionManager := chat.NewSessionManager(
		time.Duration(cfg.ChatSessionTTLMinutes)*time.Minute,
		time.Duration(cfg.ChatSweepIntervalMinutes)*time.Minute,
		logger,
	)
	defer sessionManager.Shutdown()
	chatService := chat.NewService(aiClient, sessionManager, cfg.ChatMaxMessageLength, logger)

	// The saved-guide library needs Postgres; without DATABASE_URL the
	// service still runs, generation-only.
	var guideStore *projects.Store
	if cfg.DatabaseURL != "" {
		db, err := pg.InitDatabase(cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		guideStore = projects.NewStore(db)
		logger.Info("saved-guide library enabled")
	}

	var limiter *ratelimit.Limiter
	if cfg.RateLimitEnabled {
		limiter = ratelimit.NewLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
		defer limiter.Shutdown()
	}

	router := setupRouter(cfg, logger, catalog, projectService, chatService, guideStore, limiter)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ServerShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("server stopped")
}

func setupRouter(
	cfg *config.Config,
	logger *applogger.Logger,
	catalog *config.Catalog,
	projectService *projects.Service,
	chatService *chat.Service,
	guideStore *projects.Store,
	limiter *ratelimit.Limiter,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(applogger.RequestLoggingMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"model":  cfg.GeminiModel,
		})
	})
	router.GET("/metrics", metrics.Handler())

	projectHandler := projects.NewHandler(projectService, guideStore, logger)
	chatHandler := chat.NewHandler(chatService, logger)

	api := router.Group("/api/v1")

	// Only the endpoints that reach the model are rate limited.
	generate := api.Group("")
	if limiter != nil {
		generate.Use(ratelimit.Middleware(limiter, cfg.RateLimitRequestsPerMinute, logger))
	}
	generate.POST("/projects/generate", projectHandler.Generate)
	generate.POST("/chat/sessions/:id/messages", chatHandler.SendMessage)

	api.GET("/catalog", func(c *gin.Context) {
		c.JSON(http.StatusOK, catalog)
	})

	api.POST("/chat/sessions", chatHandler.CreateSession)
	api.GET("/chat/sessions/:id", chatHandler.GetSession)
	api.DELETE("/chat/sessions/:id", chatHandler.DeleteSession)

	if guideStore != nil {
		api.POST("/projects", projectHandler.Save)
		api.GET("/projects", projectHandler.List)
		api.GET("/projects/:id", projectHandler.Get)
		api.GET("/projects/:id/markdown", projectHandler.Download)
		api.DELETE("/projects/:id", projectHandler.Delete)
	}

	return router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, x-request-id")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
