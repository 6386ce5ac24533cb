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

	"kabyar/internal/auth"
	"kabyar/internal/config"
	"kabyar/internal/handler"
	"kabyar/internal/httputil"
	"kabyar/internal/middleware"
	"kabyar/internal/provider"
	"kabyar/internal/relay"
	"kabyar/internal/repository/postgres"
	"kabyar/internal/service/credits"
	"kabyar/internal/threads"

	"github.com/joho/godotenv"
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

	logOut := io.Writer(os.Stdout)
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to create log file: %v", err)
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
		"table_prefix", cfg.TablePrefix,
		"default_provider", cfg.DefaultProvider,
	)

	// Create JWT verifier for session authentication
	jwtVerifier, err := auth.NewJWKSVerifier(cfg.AuthJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	profileRepo := postgres.NewProfileRepository(repoConfig)

	// Model catalog: compiled-in defaults plus an optional YAML override
	catalog, err := provider.LoadCatalog(cfg.ModelCatalogPath)
	if err != nil {
		log.Fatalf("Failed to load model catalog: %v", err)
	}

	// Provider registry: adapters are built lazily, so a missing API key
	// only fails requests for that provider
	registry := provider.NewRegistry(provider.NewFactory(cfg), catalog, cfg.DefaultProvider)

	// Services
	creditSvc := credits.NewService(profileRepo, cfg.DefaultProvider, logger)
	threadStore := threads.NewStore()
	threadStore.StartCleanup(ctx, 10*time.Minute)
	sessions := relay.NewManager()
	// An evicted thread takes its relay session with it, so neither map
	// outgrows the other
	threadStore.OnEvict(sessions.Remove)

	// Handlers
	aiHandler := handler.NewAIHandler(registry, creditSvc, logger)
	tutorHandler := handler.NewTutorHandler(registry, threadStore, sessions, creditSvc, logger)
	profileHandler := handler.NewProfileHandler(creditSvc, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// AI study-tool routes
	mux.HandleFunc("POST /api/ai/chat", aiHandler.Chat)
	mux.HandleFunc("POST /api/ai/detect", aiHandler.Detect)
	mux.HandleFunc("POST /api/ai/essay", aiHandler.Essay)
	mux.HandleFunc("POST /api/ai/humanize", aiHandler.Humanize)
	mux.HandleFunc("POST /api/ai/study-guide", aiHandler.StudyGuide)
	mux.HandleFunc("POST /api/ai/presentation", aiHandler.Presentation)
	mux.HandleFunc("POST /api/ai/presentation/generate-pptx", aiHandler.GeneratePPTX)
	mux.HandleFunc("GET /api/ai/models", aiHandler.Models)

	// Interactive tutor routes
	mux.HandleFunc("POST /api/ai/thesys", tutorHandler.Stream)
	mux.HandleFunc("POST /api/ai/thesys/threads/{id}/stop", tutorHandler.Stop)
	mux.HandleFunc("DELETE /api/ai/thesys/threads/{id}", tutorHandler.DeleteThread)

	// User routes
	mux.HandleFunc("GET /api/user/profile", profileHandler.GetProfile)
	mux.HandleFunc("PUT /api/user/profile", profileHandler.UpdateProfile)
	mux.HandleFunc("GET /api/user/credits", profileHandler.GetCredits)
	mux.HandleFunc("POST /api/user/credits/reward", profileHandler.RewardCredits)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.AuthMiddleware(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived completion streams
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
