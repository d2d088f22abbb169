package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nexustrace/backend/internal/api/handlers"
	"github.com/nexustrace/backend/internal/auth"
	"github.com/nexustrace/backend/internal/cases"
	"github.com/nexustrace/backend/internal/entity"
	"github.com/nexustrace/backend/internal/feedback"
	"github.com/nexustrace/backend/internal/graph"
	"github.com/nexustrace/backend/internal/graph/analytics"
	"github.com/nexustrace/backend/internal/ingestion"
	"github.com/nexustrace/backend/internal/llm"
	"github.com/nexustrace/backend/internal/metrics"
	"github.com/nexustrace/backend/internal/middleware/ratelimit"
	"github.com/nexustrace/backend/internal/middleware/security"
	"github.com/nexustrace/backend/internal/rag"
	"github.com/nexustrace/backend/internal/risk"
	"github.com/nexustrace/backend/pkg/config"
	appLogger "github.com/nexustrace/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting NexusTrace API Server")

	store, err := graph.NewStore(
		cfg.Neo4j.URI,
		cfg.Neo4j.Username,
		cfg.Neo4j.Password,
		cfg.Neo4j.Database,
	)
	if err != nil {
		appLogger.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer store.Close(context.Background())

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	llmClient := llm.NewClient(
		cfg.LLM.APIKey,
		cfg.LLM.BaseURL,
		cfg.LLM.Model,
		cfg.LLM.EmbeddingModel,
		cfg.LLM.Temperature,
		cfg.LLM.MaxTokens,
	)

	extractor := entity.NewExtractor(entity.NewProseRecognizer())

	metrics.Init()

	pipeline := ingestion.NewPipeline(store, llmClient, extractor, risk.Scorer{}, cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
	retriever := rag.NewRetriever(llmClient, store, cfg.Retrieval.TopK)
	generator := rag.NewGenerator(llmClient)
	ragService := rag.NewService(retriever, generator, store)

	issuer := auth.NewTokenIssuer(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	authService := auth.NewService(store, issuer)
	caseService := cases.NewService(store)
	feedbackService := feedback.NewService(store)
	engine := analytics.NewEngine(store)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))

	limiter := ratelimit.New(redisClient, ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	})

	authHandler := handlers.NewAuthHandler(authService)
	caseHandler := handlers.NewCaseHandler(caseService)
	evidenceHandler := handlers.NewEvidenceHandler(pipeline, store)
	ragHandler := handlers.NewRagHandler(ragService, caseService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	graphHandler := handlers.NewGraphHandler(engine)

	api := app.Group("/api/v1")

	// Public routes are limited by IP; the protected group is keyed by the
	// authenticated user, so the auth middleware must run first.
	api.Post("/auth/register", limiter.Middleware(nil), authHandler.Register)
	api.Post("/auth/login", limiter.Middleware(nil), authHandler.Login)

	protected := api.Group("", auth.Middleware(issuer), limiter.Middleware(auth.UserID))
	protected.Get("/auth/me", authHandler.Me)

	protected.Post("/cases", caseHandler.Create)
	protected.Get("/cases", caseHandler.List)
	protected.Get("/cases/:case_id", caseHandler.Get)
	protected.Patch("/cases/:case_id", caseHandler.Update)
	protected.Delete("/cases/:case_id", caseHandler.Delete)

	protected.Post("/cases/:case_id/evidence", evidenceHandler.Upload)
	protected.Get("/cases/:case_id/evidence", evidenceHandler.List)
	protected.Get("/evidence/:evidence_id", evidenceHandler.Get)

	protected.Post("/rag/ask", ragHandler.Ask)
	protected.Get("/rag/explain/:query_id", ragHandler.Explain)
	protected.Post("/feedback", feedbackHandler.Submit)

	protected.Get("/graph/:case_id/timeline", graphHandler.Timeline)
	protected.Get("/graph/:case_id/prioritized", graphHandler.Leads)
	protected.Get("/graph/:case_id/network", graphHandler.Network)
	protected.Get("/graph/:case_id/mindmap", graphHandler.Mindmap)
	protected.Get("/graph/:case_id/entities", graphHandler.Entities)
	protected.Get("/graph/entity/:entity_id", graphHandler.Entity)

	app.Get("/metrics", metrics.Handler())

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
