package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/closetly/wardrobe/internal/api/handlers"
	"github.com/closetly/wardrobe/internal/api/middleware"
	"github.com/closetly/wardrobe/internal/config"
	"github.com/closetly/wardrobe/internal/embeddings"
	"github.com/closetly/wardrobe/internal/observability"
	"github.com/closetly/wardrobe/internal/repository"
	"github.com/closetly/wardrobe/internal/service"
	"github.com/closetly/wardrobe/pkg/database"
)

const (
	catalogWardrobe    = "wardrobe"
	catalogMarketplace = "marketplace"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.LogLevel)

	db, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, database.WithVectorTypes())
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Embedding gateway: CLIP inference service over HTTP, rate limited.
	limiter := rate.NewLimiter(rate.Limit(cfg.EmbeddingRateLimit), 1)
	embeddingClient := embeddings.NewCLIPClient(cfg.EmbeddingServiceURL, cfg.EmbeddingDimensions, limiter)
	slog.Info("embedding gateway configured", "url", cfg.EmbeddingServiceURL, "dimensions", cfg.EmbeddingDimensions)

	// Repositories: two catalog namespaces over one table, plus the fixed
	// tag vocabulary.
	wardrobeRepo := repository.NewCatalogRepository(db, catalogWardrobe)
	marketplaceRepo := repository.NewCatalogRepository(db, catalogMarketplace)
	tagsRepo := repository.NewTagsRepository(db)

	tagService := service.NewTagService(tagsRepo, nil)

	wardrobeService := service.NewCatalogService(service.CatalogServiceParams{
		Store:    wardrobeRepo,
		Embedder: embeddingClient,
		Tags:     tagService,
	})

	marketplaceService := service.NewCatalogService(service.CatalogServiceParams{
		Store:          marketplaceRepo,
		Embedder:       embeddingClient,
		Tags:           tagService,
		RequireListing: true,
	})

	var queryCache *lru.Cache[string, []float32]
	if cfg.QueryCacheSize > 0 {
		queryCache, err = lru.New[string, []float32](cfg.QueryCacheSize)
		if err != nil {
			slog.Error("Failed to create query cache", "error", err)
			os.Exit(1)
		}
	}

	outfitService := service.NewOutfitService(service.OutfitServiceParams{
		Embedder:   embeddingClient,
		Catalog:    wardrobeRepo,
		QueryCache: queryCache,
	})

	wardrobeHandler := handlers.NewCatalogHandler(wardrobeService)
	marketplaceHandler := handlers.NewListingCatalogHandler(marketplaceService)
	outfitHandler := handlers.NewOutfitHandler(outfitService)
	healthHandler := handlers.NewHealthHandler()

	// Public endpoints (no authentication required)
	publicMux := http.NewServeMux()
	publicMux.HandleFunc("GET /health", healthHandler.Check)

	// Protected endpoints (authentication required)
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("POST /v1/wardrobe/items", wardrobeHandler.Upload)
	protectedMux.HandleFunc("GET /v1/wardrobe/items", wardrobeHandler.List)
	protectedMux.HandleFunc("GET /v1/wardrobe/items/{id}", wardrobeHandler.Get)
	protectedMux.HandleFunc("DELETE /v1/wardrobe/items/{id}", wardrobeHandler.Delete)
	protectedMux.HandleFunc("GET /v1/wardrobe/items/{id}/matches", outfitHandler.Matches)

	protectedMux.HandleFunc("POST /v1/marketplace/items", marketplaceHandler.Upload)
	protectedMux.HandleFunc("GET /v1/marketplace/items", marketplaceHandler.List)
	protectedMux.HandleFunc("GET /v1/marketplace/items/{id}", marketplaceHandler.Get)
	protectedMux.HandleFunc("DELETE /v1/marketplace/items/{id}", marketplaceHandler.Delete)

	protectedMux.HandleFunc("POST /v1/outfits/generate", outfitHandler.Generate)

	var protectedHandler http.Handler = protectedMux
	protectedHandler = middleware.Auth(cfg.APIKey)(protectedHandler)

	mainMux := http.NewServeMux()
	mainMux.Handle("/v1/", protectedHandler)
	mainMux.Handle("/", publicMux)

	var handler http.Handler = mainMux
	handler = middleware.MaxBody(cfg.MaxRequestBodyBytes)(handler)
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

// setupLogging configures slog with the specified log level and installs the
// request-id handler so request_id appears in request-scoped logs.
func setupLogging(level string) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(observability.NewRequestIDHandler(handler)))
}
