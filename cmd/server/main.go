package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/launchlens/startup-meter/internal/admin"
	"github.com/launchlens/startup-meter/internal/auth"
	"github.com/launchlens/startup-meter/internal/config"
	"github.com/launchlens/startup-meter/internal/database"
	"github.com/launchlens/startup-meter/internal/errors"
	"github.com/launchlens/startup-meter/internal/evaluator"
	"github.com/launchlens/startup-meter/internal/monitoring"
	"github.com/launchlens/startup-meter/internal/payment"
	"github.com/launchlens/startup-meter/internal/projects"
	"github.com/launchlens/startup-meter/internal/ratelimit"
	"github.com/launchlens/startup-meter/internal/security"
	"github.com/launchlens/startup-meter/internal/types"
)

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	// Initialize database and services
	db, err := database.NewDB(cfg.DataDir)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := database.NewRepository(db)
	userService := database.NewUserService(repo, cfg.JWTSecret, cfg.JWTExpiry)

	// Initialize monitoring system
	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	// Evaluation pipeline
	evalService := evaluator.NewService(cfg, appMetrics)

	// Rate limiting: Redis when configured, in-memory fallback otherwise
	redisClient, err := ratelimit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		slog.Warn("Redis unavailable, continuing with in-memory rate limiting", "error", err)
	}
	defer redisClient.Close()

	limiter := ratelimit.NewRateLimiter(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow, appMetrics)

	r := gin.New()

	// Middleware chain: monitoring first to capture all requests
	r.Use(monitoring.Middleware(appMetrics, appLogger))
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())
	r.Use(security.Headers())
	r.Use(security.ValidateContentType())

	// CORS is intentionally permissive; the frontend is served from a
	// separate origin.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// API routes share the fixed-window IP quota
	api := r.Group("/api")
	api.Use(limiter.Middleware())

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "healthy",
			"timestamp":    time.Now().Format(time.RFC3339),
			"aiConfigured": cfg.AIConfigured(),
		})
	})

	api.POST("/evaluate", func(c *gin.Context) {
		var req types.EvaluateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid answers format",
			})
			return
		}

		answers := types.AnswerSet(req.Answers)
		answered := answers.Answered()
		if answered < types.MinAnsweredQuestions {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Please answer at least 7 questions",
			})
			return
		}

		slog.Info("Starting evaluation", "answered_questions", answered, "ip", c.ClientIP())

		start := time.Now()
		result := evalService.Evaluate(c.Request.Context(), answers)
		appMetrics.IncrementEvaluation()
		appLogger.EvaluationLogger(answered, result.OverallScore, !cfg.AIConfigured(), time.Since(start))

		// Analytics failures never fail the request.
		if err := repo.BumpAnalytics("daily_evaluations"); err != nil {
			slog.Warn("Failed to update evaluation analytics", "error", err)
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"evaluation": result.ToPayload(),
		})
	})

	api.POST("/chat", func(c *gin.Context) {
		var req types.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Message and evaluation data are required",
			})
			return
		}

		reply := evalService.ChatResponse(c.Request.Context(), req.Message, req.EvaluationData.Evaluation)

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"response": reply,
		})
	})

	api.POST("/market-insights", func(c *gin.Context) {
		var req types.MarketDataRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Answers and evaluation data are required",
			})
			return
		}

		insights := evalService.MarketInsights(c.Request.Context(), types.AnswerSet(req.Answers), req.EvaluationData.Evaluation)

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"insights": insights,
		})
	})

	api.POST("/market-news", func(c *gin.Context) {
		var req types.MarketDataRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Answers and evaluation data are required",
			})
			return
		}

		news := evalService.MarketNews(c.Request.Context(), types.AnswerSet(req.Answers))

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"news":    news,
		})
	})

	// Account, project, admin and payment surfaces
	authMiddleware := auth.NewMiddleware(userService)
	auth.NewHandler(userService).RegisterRoutes(api.Group("/auth"), authMiddleware)
	projects.NewHandler(repo).RegisterRoutes(api.Group("/projects"), authMiddleware)
	admin.NewHandler(userService).RegisterRoutes(api.Group("/admin"), authMiddleware)
	payment.NewHandler(cfg, repo).RegisterRoutes(api.Group("/payment"), authMiddleware)

	// Swagger documentation routes
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics endpoint
	r.GET("/metrics", func(c *gin.Context) {
		stats := appMetrics.GetStats()
		stats["rate_limiter"] = limiter.GetStats()
		stats["database_pool"] = db.GetPoolStats()
		c.JSON(http.StatusOK, stats)
	})

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port,
			"ai_configured", cfg.AIConfigured(),
			"search_configured", cfg.SearchConfigured())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}
