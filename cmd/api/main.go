package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"botdash/gateway/internal/config"
	"botdash/gateway/internal/handler"
	"botdash/gateway/internal/middleware"
	"botdash/gateway/internal/service"
	"botdash/gateway/internal/session"
	"botdash/gateway/internal/view"
	"botdash/gateway/pkg/jwt"
	"botdash/gateway/pkg/logger"
	"botdash/gateway/pkg/redis"
	"botdash/gateway/pkg/tradeapi"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.GetLogger()

	log.Info("Starting botdash gateway...")
	log.Infof("Environment: %s", cfg.Server.Env)
	log.Infof("Trading API: %s", cfg.TradeAPI.BaseURL)

	// Initialize Redis
	log.Info("Connecting to Redis...")
	redisClient, err := redis.New(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	log.Info("✓ Redis connected")

	// Set Gin mode
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Apply middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(middleware.RateLimit(redisClient, cfg.RateLimit.RequestsPerMinute))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "Redis connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"redis":  "connected",
		})
	})

	// Initialize upstream client and session layer
	apiClient := tradeapi.NewClient(cfg.TradeAPI.BaseURL, log)
	sessionStore := session.NewStore(redisClient, cfg.Session.TTL)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TokenExpire)

	// Initialize services and view controllers
	authService := service.NewAuthService(apiClient, sessionStore, jwtManager, log)
	botList := view.NewBotList(apiClient, log)
	cards := view.NewCards(apiClient, log)
	dashboard := view.NewDashboard(apiClient, log)
	calculator := view.NewCalculator(apiClient, nil)
	defer botList.Close()
	defer cards.Close()
	defer dashboard.Close()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	botHandler := handler.NewBotHandler(apiClient, botList, cards, authService)
	dashboardHandler := handler.NewDashboardHandler(dashboard, authService)
	deviationHandler := handler.NewDeviationHandler(apiClient, calculator, authService)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.AuthRateLimit(redisClient, cfg.RateLimit.AuthRequestsPerMinute), authHandler.Login)
			auth.POST("/forgot-password", middleware.AuthRateLimit(redisClient, cfg.RateLimit.AuthRequestsPerMinute), authHandler.ForgotPassword)
			auth.POST("/reset-password/:token", middleware.AuthRateLimit(redisClient, cfg.RateLimit.AuthRequestsPerMinute), authHandler.ResetPassword)
			auth.POST("/logout", middleware.SessionAuth(authService), authHandler.Logout)
			auth.GET("/me", middleware.SessionAuth(authService), authHandler.Me)
		}

		// Bot routes
		bots := v1.Group("/bots")
		bots.Use(middleware.SessionAuth(authService))
		{
			bots.GET("", botHandler.ListBots)
			bots.GET("/summary", botHandler.ListSummaries)
			bots.GET("/:id", botHandler.GetBot)
			bots.GET("/:id/state", botHandler.GetBotState)
			bots.GET("/:id/trades", botHandler.GetBotTrades)
			bots.GET("/:id/assets", botHandler.GetBotAssets)
			bots.GET("/:id/prices", botHandler.GetBotPrices)
			bots.GET("/:id/performance", botHandler.GetBotPerformance)
			bots.GET("/:id/coins", botHandler.GetBotCoins)
			bots.GET("/:id/logs", botHandler.GetBotLogs)
			bots.GET("/:id/trade-decisions", botHandler.GetBotTradeDecisions)
			bots.GET("/:id/swap-decisions", botHandler.GetBotSwapDecisions)
			bots.GET("/:id/snapshots/price-comparison", botHandler.GetPriceComparison)
			bots.GET("/:id/snapshots/historical-comparison", botHandler.GetHistoricalComparison)
		}

		// Dashboard route
		dash := v1.Group("/dashboard")
		dash.Use(middleware.SessionAuth(authService))
		{
			dash.GET("", dashboardHandler.GetDashboard)
		}

		// Deviation routes
		deviations := v1.Group("/deviations")
		deviations.Use(middleware.SessionAuth(authService))
		{
			deviations.POST("/calculate", deviationHandler.Calculate)
			deviations.GET("/history", deviationHandler.History)
			deviations.GET("/bots/:id", deviationHandler.GetBotDeviations)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Infof("Server starting on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", err)
		}
	}()

	log.Info("✓ Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", err)
	}

	log.Info("Server exited")
}
