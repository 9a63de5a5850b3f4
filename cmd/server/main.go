package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GemFund/gemini-service/internal/config"
	"github.com/GemFund/gemini-service/internal/etherscan"
	"github.com/GemFund/gemini-service/internal/exif"
	"github.com/GemFund/gemini-service/internal/forensics"
	"github.com/GemFund/gemini-service/internal/gemini"
	"github.com/GemFund/gemini-service/internal/handler"
	"github.com/GemFund/gemini-service/internal/scratch"
	"github.com/GemFund/gemini-service/internal/serpapi"
	"github.com/GemFund/gemini-service/internal/service"
	"github.com/GemFund/gemini-service/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Starting Gemini Service...")

	// Load .env before the config so ${VAR} references resolve
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using process environment")
	}

	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	if cfg.Gemini.APIKey == "" {
		logger.Fatal("Gemini API key not configured. Please set it in configs/config.yml or environment variable")
	}
	if cfg.Server.JWTSecret == "" {
		logger.Fatal("JWT secret not configured. Please set it in configs/config.yml or environment variable")
	}

	ctx := context.Background()

	// Initialize Gemini client
	geminiClient, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:            cfg.Gemini.APIKey,
		ModelName:         cfg.Gemini.ModelName,
		DeepResearchAgent: cfg.Gemini.DeepResearchAgent,
		InteractionsURL:   cfg.Gemini.InteractionsURL,
		RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
		MediaPollInterval: time.Duration(cfg.Gemini.MediaPollSeconds) * time.Second,
		MediaPollAttempts: cfg.Gemini.MediaPollAttempts,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Gemini client", zap.Error(err))
	}
	defer geminiClient.Close()

	// Initialize evidence sources
	etherscanClient := etherscan.NewClient(cfg.Etherscan.APIKey, cfg.Etherscan.ChainID, cfg.Etherscan.MaxAttempts, logger)
	serpClient := serpapi.NewClient(cfg.SerpAPI.APIKey, logger)
	storageClient := storage.NewClient(cfg.Storage.URL, cfg.Storage.Key, cfg.Storage.Bucket, logger)
	scratchManager := scratch.NewManager(storageClient, logger)
	extractor := exif.NewExtractor(logger)

	// Assemble collectors and services
	aggregator := forensics.NewAggregator(
		forensics.NewBlockchainCollector(etherscanClient, logger),
		forensics.NewExifCollector(extractor, logger),
		forensics.NewReverseImageCollector(storageClient, serpClient, logger),
		forensics.NewIdentityCollector(geminiClient, logger),
		logger,
	)

	assessor := service.NewAssessor(geminiClient, scratchManager, aggregator, extractor, logger)
	investigator := service.NewInvestigator(geminiClient.Interactions(), geminiClient, logger)

	// Initialize HTTP handler
	apiHandler := handler.NewHandler(assessor, investigator, []byte(cfg.Server.JWTSecret), logger)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register routes
	apiHandler.RegisterRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	// Graceful shutdown
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Gemini Service is running",
		zap.String("port", cfg.Server.Port),
		zap.String("model", cfg.Gemini.ModelName))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
