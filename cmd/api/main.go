package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"

	openaiadapter "github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/adapter/openai"
	repomemory "github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/adapter/repository/memory"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/adapter/storage"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/adapter/vectorindex"
	idxmemory "github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/adapter/vectorindex/memory"
	idxpgvector "github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/adapter/vectorindex/pgvector"
	idxqdrant "github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/adapter/vectorindex/qdrant"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/adapter/vectorstore"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/delivery/http/handler"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/usecase/document"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/usecase/rag"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/pkg/config"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/pkg/database"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/pkg/logger"
)

func main() {
	cfg := config.Load()

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	// pick the nearest-neighbor backend
	var index vectorindex.Index
	switch cfg.VectorBackend {
	case "pgvector":
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			logg.Fatal("failed to connect to database", "error", err)
		}
		defer db.Close()
		index, err = idxpgvector.New(db, cfg.EmbeddingDimensions)
		if err != nil {
			logg.Fatal("failed to initialize pgvector index", "error", err)
		}
		logg.Info("using pgvector index")
	case "qdrant":
		index = idxqdrant.New(idxqdrant.Config{
			URL:        cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.QdrantCollection,
		})
		logg.Info("using qdrant index", "url", cfg.QdrantURL, "collection", cfg.QdrantCollection)
	default:
		index = idxmemory.New()
		logg.Info("using in-memory index")
	}

	// external services
	embeddingClient := openaiadapter.NewEmbeddingClient(cfg.OpenAIKey, cfg.OpenAIEmbeddingModel)
	chatClient := openaiadapter.NewChatClient(cfg.OpenAIKey, cfg.OpenAIChatModel)

	// adapters
	vectors := vectorstore.New(embeddingClient, index, logg)
	files, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		logg.Fatal("failed to initialize file store", "error", err)
	}
	registry := repomemory.NewDocumentRegistry()
	history := repomemory.NewChatHistory()

	// usecase
	ragUsecase := rag.NewRAGUsecase(
		registry,
		history,
		vectors,
		chatClient,
		files,
		document.NewExtractor(logg),
		document.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		cfg.MaxSources,
		logg,
	)

	// handlers
	docHandler := handler.NewDocumentHandler(ragUsecase, cfg.MaxFileSize, cfg.AllowedExtensions)
	chatHandler := handler.NewChatHandler(ragUsecase)

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.MaxFileSize) + 1024*1024,
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":    "Intelligent Document Analysis System",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	api := app.Group("/api")

	// document routes
	api.Post("/documents/upload", docHandler.Upload)
	api.Get("/documents", docHandler.List)
	api.Get("/documents/stats/system", docHandler.Stats)
	api.Post("/documents/compare", docHandler.Compare)
	api.Get("/documents/:id", docHandler.GetByID)
	api.Delete("/documents/:id", docHandler.Delete)
	api.Post("/documents/:id/summarize", docHandler.Summarize)
	api.Get("/documents/:id/similar", docHandler.Similar)

	// chat routes
	api.Post("/chat/ask", chatHandler.Ask)
	api.Get("/chat/history/:id", chatHandler.History)
	api.Delete("/chat/history/:id", chatHandler.ClearHistory)

	logg.Info("server starting", "port", cfg.Port)
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logg.Fatal("failed to start server", "error", err)
	}
}
