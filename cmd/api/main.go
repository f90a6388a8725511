// @title Interview Coach API
// @version 1.0
// @description Generates interview questions and evaluates candidate answers with a generative model.
// @host localhost:5000
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"fmt"
	"interview-coach/internal/adapter"
	"interview-coach/internal/adapter/llm"
	"interview-coach/internal/cache"
	"interview-coach/internal/config"
	"interview-coach/internal/domain"
	"interview-coach/internal/handler"
	"interview-coach/internal/logger"
	"interview-coach/internal/middleware"
	"interview-coach/internal/ratelimit"
	"interview-coach/internal/service"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "interview-coach/cmd/api/docs"

	"github.com/gofiber/swagger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		appLogger.Error("Server stopped with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	appLogger.Info("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	appLogger := logger.Get()

	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	generator = llm.WithLogging(generator)

	// Shared rate limit state
	var sharedCache domain.Cache
	store := ratelimit.Store(ratelimit.NewMemoryStore())
	if cfg.RateLimit.Backend == config.RateLimitBackendRedis {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))

		sharedCache = adapter.NewRedisCacheAdapter(redisClient)
		store = ratelimit.NewCacheStore(sharedCache, cfg.RateLimit.MinInterval)
	}
	limiter := ratelimit.New(cfg.RateLimit.MinInterval, store, ratelimit.RealClock{})
	appLogger.Info("Rate limiter initialized",
		zap.String("backend", cfg.RateLimit.Backend),
		zap.Duration("min_interval", limiter.MinInterval()),
		zap.Bool("gate_questions", cfg.RateLimit.GateQuestions))

	evaluationGen := domain.TextGenerator(llm.WithRateLimit(generator, limiter))
	questionGen := generator
	if cfg.RateLimit.GateQuestions {
		questionGen = evaluationGen
	}

	interviewService := service.NewInterviewService(service.InterviewServiceConfig{
		QuestionGenerator:   questionGen,
		EvaluationGenerator: evaluationGen,
		QuestionModel:       cfg.LLM.QuestionModel,
		EvaluationModel:     cfg.LLM.EvaluationModel,
		Cooldown:            cfg.RateLimit.Cooldown,
		ParseSections:       cfg.Evaluation.ParseSections,
		Clock:               ratelimit.RealClock{},
	})

	app := newApp(cfg, handler.NewInterviewHandler(interviewService), handler.NewHealthHandler(sharedCache))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + strconv.Itoa(cfg.Server.Port)
		appLogger.Info("Starting server", zap.String("addr", addr), zap.String("provider", cfg.LLM.Provider))
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})
	return g.Wait()
}

func newGenerator(ctx context.Context, cfg *config.Config) (domain.TextGenerator, error) {
	switch cfg.LLM.Provider {
	case config.ProviderGemini:
		logger.Get().Info("Initializing Gemini generator",
			zap.String("question_model", cfg.LLM.QuestionModel),
			zap.String("evaluation_model", cfg.LLM.EvaluationModel))
		gen, err := llm.NewGeminiGenerator(ctx, cfg.Gemini, cfg.LLM.Timeout)
		if err != nil {
			return nil, err
		}
		return gen, nil
	case config.ProviderOllama:
		logger.Get().Info("Initializing Ollama generator", zap.String("server_url", cfg.Ollama.ServerURL))
		gen, err := llm.NewOllamaGenerator(cfg.Ollama, cfg.LLM.QuestionModel, cfg.LLM.Timeout)
		if err != nil {
			return nil, err
		}
		return gen, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLM.Provider)
	}
}

func newApp(cfg *config.Config, interviewHandler *handler.InterviewHandler, healthHandler *handler.HealthHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestIDs())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.CORS(cfg.CORS))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", healthHandler.Health)
	app.Post("/generate_questions", interviewHandler.GenerateQuestions)
	app.Post("/evaluate_answers", interviewHandler.EvaluateAnswers)

	return app
}
