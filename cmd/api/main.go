package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"docquiz/internal/adapter"
	"docquiz/internal/adapter/llm"
	"docquiz/internal/adapter/ocr"
	"docquiz/internal/cache"
	"docquiz/internal/config"
	"docquiz/internal/domain"
	"docquiz/internal/extract"
	"docquiz/internal/generation"
	"docquiz/internal/grading"
	"docquiz/internal/handler"
	"docquiz/internal/logger"
	"docquiz/internal/middleware"
	"docquiz/internal/service"
	"docquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	// Generation backend
	var generator domain.TextGenerator
	switch cfg.LLM.Provider {
	case "googleai":
		appLogger.Info("Initializing Google AI generator", zap.String("model", cfg.LLM.GoogleAI.Model))
		generator, err = llm.NewGoogleAIGenerator(ctx, cfg.LLM)
		if err != nil {
			appLogger.Fatal("Failed to create Google AI generator", zap.Error(err))
		}
	case "ollama":
		appLogger.Info("Initializing Ollama generator",
			zap.String("server_url", cfg.LLM.Ollama.ServerURL),
			zap.String("model", cfg.LLM.Ollama.Model))
		generator, err = llm.NewOllamaGenerator(cfg.LLM)
		if err != nil {
			appLogger.Fatal("Failed to create Ollama generator", zap.Error(err))
		}
	default:
		appLogger.Fatal(fmt.Sprintf("Unsupported LLM provider: %s. Please check LLM_PROVIDER in config.", cfg.LLM.Provider))
	}

	// Extraction strategies with OCR fallback
	recognizers := ocr.NewFactory(cfg.OCR)
	registry := extract.NewRegistry()
	registry.Register(extract.KindPDF, extract.NewPDFStrategy(recognizers))
	registry.Register(extract.KindImage, extract.NewImageStrategy(recognizers))
	registry.Register(extract.KindText, extract.NewTextStrategy())
	registry.Register(extract.KindWord, extract.NewWordStrategy())

	orchestrator := generation.NewOrchestrator(generator, cfg.LLM.MaxAttempts, cfg.LLM.AttemptTimeout)

	// Grading strategy
	var grader domain.AnswerGrader
	switch cfg.Grading.Strategy {
	case "semantic":
		grader = grading.NewSemanticGrader(generator, cfg.LLM.MaxAttempts, cfg.LLM.AttemptTimeout)
	case "lexical":
		grader = grading.NewLexicalGrader(cfg.Grading)
	default:
		appLogger.Fatal(fmt.Sprintf("Unsupported grading strategy: %s. Please check GRADING_STRATEGY in config.", cfg.Grading.Strategy))
	}
	appLogger.Info("Grading strategy selected", zap.String("strategy", cfg.Grading.Strategy))

	// Optional grading-outcome cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		grader = grading.NewCachedGrader(grader, adapter.NewRedisCacheAdapter(redisClient), grading.DefaultOutcomeTTL)
		appLogger.Info("Grading cache enabled", zap.String("redis", cfg.Redis.Address))
	}

	quizService := service.NewQuizService(registry, orchestrator, grader)
	quizHandler := handler.NewQuizHandler(quizService, validation.NewValidator(), cfg.Server.RequestDeadline)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Post("/upload", quizHandler.Upload)
	app.Post("/validate-answer", quizHandler.ValidateAnswer)
	app.Get("/healthz", quizHandler.Health)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
