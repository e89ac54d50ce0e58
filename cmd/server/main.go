package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"sitedeck/internal/blob"
	"sitedeck/internal/config"
	"sitedeck/internal/disciplines"
	"sitedeck/internal/handler"
	"sitedeck/internal/metrics"
	"sitedeck/internal/middleware"
	"sitedeck/internal/repository/postgres"
	postgresDrawings "sitedeck/internal/repository/postgres/drawings"
	postgresHierarchy "sitedeck/internal/repository/postgres/hierarchy"
	serviceDrawings "sitedeck/internal/service/drawings"
	serviceHierarchy "sitedeck/internal/service/hierarchy"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, config.MaxLogFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Apply pending schema migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Canonical table names; tests pass a prefix to isolate schemas
	tables := postgres.NewTableNames("")

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	nodeRepo := postgresHierarchy.NewNodeRepository(repoConfig)
	drawingRepo := postgresDrawings.NewDrawingRepository(repoConfig)
	revisionRepo := postgresDrawings.NewRevisionRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Blob store for revision artifacts
	blobs, err := blob.NewFSStore(cfg.BlobDir)
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}

	// Discipline master data from the embedded registry
	disciplineRegistry, err := disciplines.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize discipline registry: %v", err)
	}
	logger.Info("discipline registry initialized", "disciplines", len(disciplineRegistry.List()))

	// Metrics
	m := metrics.New(prometheus.DefaultRegisterer)

	// Create services
	pathResolver := serviceHierarchy.NewPathResolver(nodeRepo, m, logger)
	nodeService := serviceHierarchy.NewNodeService(nodeRepo, pathResolver, txManager, m, logger)
	versionLedger := serviceDrawings.NewVersionLedger(drawingRepo, revisionRepo, txManager, m, logger)
	drawingRegistry := serviceDrawings.NewDrawingRegistry(drawingRepo, revisionRepo, nodeRepo, disciplineRegistry, txManager, m, logger)
	listingService := serviceDrawings.NewListingService(drawingRepo, revisionRepo, m, logger)

	// Create handlers
	nodeHandler := handler.NewNodeHandler(nodeService, pathResolver, logger)
	treeHandler := handler.NewTreeHandler(pathResolver, logger)
	drawingHandler := handler.NewDrawingHandler(drawingRegistry, versionLedger, listingService, blobs, logger)
	disciplineHandler := handler.NewDisciplineHandler(disciplineRegistry, logger)
	healthHandler := handler.NewHealthHandler(pool, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check and metrics
	mux.HandleFunc("GET /health", healthHandler.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Node routes
	mux.HandleFunc("POST /api/projects/{projectID}/nodes", nodeHandler.CreateNode)
	mux.HandleFunc("GET /api/projects/{projectID}/nodes", nodeHandler.ListChildren)
	mux.HandleFunc("GET /api/projects/{projectID}/nodes/{id}", nodeHandler.GetNode)
	mux.HandleFunc("PATCH /api/projects/{projectID}/nodes/{id}", nodeHandler.UpdateNode)
	mux.HandleFunc("DELETE /api/projects/{projectID}/nodes/{id}", nodeHandler.DeleteNode)
	mux.HandleFunc("GET /api/projects/{projectID}/nodes/{id}/path", nodeHandler.GetNodePath)

	// Flattened tree for selector widgets
	mux.HandleFunc("GET /api/projects/{projectID}/tree", treeHandler.Flatten)

	// Drawing routes
	mux.HandleFunc("POST /api/projects/{projectID}/drawings", drawingHandler.CreateDrawing)
	mux.HandleFunc("GET /api/projects/{projectID}/drawings", drawingHandler.ListDrawings)
	mux.HandleFunc("GET /api/projects/{projectID}/drawings/{id}", drawingHandler.GetDrawing)
	mux.HandleFunc("PATCH /api/projects/{projectID}/drawings/{id}", drawingHandler.UpdateDrawing)

	// Revision routes
	mux.HandleFunc("POST /api/projects/{projectID}/drawings/{id}/revisions", drawingHandler.AddRevision)
	mux.HandleFunc("GET /api/projects/{projectID}/drawings/{id}/revisions", drawingHandler.History)
	mux.HandleFunc("GET /api/projects/{projectID}/drawings/{id}/revisions/current", drawingHandler.CurrentRevision)
	mux.HandleFunc("GET /api/projects/{projectID}/drawings/{id}/revisions/{revisionID}/download", drawingHandler.DownloadRevision)

	// Discipline master data
	mux.HandleFunc("GET /api/disciplines", disciplineHandler.List)
	mux.HandleFunc("GET /api/disciplines/suggest", disciplineHandler.SuggestNumber)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Actor → Routes
	httpHandler = middleware.Actor()(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before the rest to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", middleware.ActorHeader},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
