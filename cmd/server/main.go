package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Avzolem/yugioh-server/internal/catalog"
	"github.com/Avzolem/yugioh-server/internal/config"
	"github.com/Avzolem/yugioh-server/internal/handlers"
	custommw "github.com/Avzolem/yugioh-server/internal/middleware"
	"github.com/Avzolem/yugioh-server/internal/observability"
	"github.com/Avzolem/yugioh-server/internal/repository"
	"github.com/Avzolem/yugioh-server/internal/services"
)

const serviceVersion = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize telemetry
	ctx := context.Background()
	telemetry, err := observability.Initialize(ctx, observability.NewConfig("yugioh-server", serviceVersion))
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			log.Printf("Telemetry shutdown error: %v", err)
		}
	}()

	// Initialize database
	var db *sql.DB
	if cfg.UsePostgres() {
		log.Println("Using PostgreSQL database")
		db, err = repository.NewPostgresDB(cfg.DatabaseURL)
	} else {
		log.Println("Using SQLite database")
		db, err = repository.NewSQLiteDB(cfg.DatabasePath)
	}
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	tracedDB, err := observability.NewTraceDB(db)
	if err != nil {
		log.Fatalf("Failed to initialize database tracing: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(tracedDB)
	sessionRepo := repository.NewWebSessionRepository(tracedDB)
	listRepo := repository.NewListRepository(tracedDB)
	deckRepo := repository.NewDeckRepository(tracedDB)
	sharedLinkRepo := repository.NewSharedLinkRepository(tracedDB)

	// Initialize services
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL)
	resolverService := services.NewResolverService(catalogClient)
	listService := services.NewListService(listRepo)
	syncService := services.NewSyncService(listRepo)
	deckService := services.NewDeckService(deckRepo)
	shareService := services.NewShareService(sharedLinkRepo, listRepo, cfg.Share.BaseURL)
	authService := services.NewAuthService(userRepo, sessionRepo, cfg.Session.DurationHours)
	imageCacheService := services.NewImageCacheService(cfg.ImageStorage.BasePath)
	accountService := services.NewAccountService(userRepo, sessionRepo, listService, deckService, shareService)
	adminService := services.NewAdminService(userRepo, listRepo, deckRepo, sharedLinkRepo)

	// WebSocket hub for real-time list and deck updates
	wsHub := services.NewWebSocketHub()
	go wsHub.Run()
	listService.SetWebSocketHub(wsHub)
	syncService.SetWebSocketHub(wsHub)
	deckService.SetWebSocketHub(wsHub)

	// Metrics
	httpMetrics, err := observability.NewHTTPMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize HTTP metrics: %v", err)
	}
	businessMetrics, err := observability.NewBusinessMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize business metrics: %v", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, businessMetrics, cfg.Session.SecureCookies)
	listHandler := handlers.NewListHandler(listService, syncService, businessMetrics)
	cardHandler := handlers.NewCardHandler(resolverService, syncService, listService, imageCacheService, businessMetrics)
	deckHandler := handlers.NewDeckHandler(deckService, businessMetrics)
	shareHandler := handlers.NewShareHandler(shareService, businessMetrics)
	userHandler := handlers.NewUserHandler(accountService, imageCacheService)
	adminHandler := handlers.NewAdminHandler(adminService)
	healthHandler := handlers.NewHealthHandler()
	wsHandler := handlers.NewWebSocketHandler(wsHub)

	// Expired share links are also pruned opportunistically on create;
	// the ticker catches links on instances that stop creating new ones.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := shareService.CleanupExpired(cleanupCtx); err != nil {
				observability.Warnf("Share link cleanup failed: %v", err)
			}
			cancel()
		}
	}()

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.TracingMiddleware("yugioh-server"))
	r.Use(observability.MetricsMiddleware(httpMetrics))

	// Public routes
	r.Get("/health", healthHandler.HealthCheck)
	r.Get("/api/health", healthHandler.HealthCheck)
	r.Post("/api/auth/register", authHandler.Register)
	r.Post("/api/auth/login", authHandler.Login)
	r.Get("/api/share/{token}", shareHandler.ResolveLink)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(custommw.SessionAuth(sessionRepo, userRepo))

		r.Post("/api/auth/logout", authHandler.Logout)
		r.Get("/api/auth/me", authHandler.Me)

		r.Route("/api/lists", func(r chi.Router) {
			r.Post("/clear-all", listHandler.ClearAll)
			r.Get("/{type}", listHandler.GetList)
			r.Post("/{type}", listHandler.AddCard)
			r.Patch("/{type}", listHandler.UpdateCard)
			r.Delete("/{type}", listHandler.RemoveCard)
			r.Post("/{type}/clear", listHandler.ClearList)
		})

		r.Route("/api/cards", func(r chi.Router) {
			r.Get("/resolve", cardHandler.Resolve)
			r.Post("/toggle-for-sale", cardHandler.ToggleForSale)
			r.Post("/cache-image", cardHandler.CacheImage)
			r.Get("/image", cardHandler.ServeImage)
		})

		r.Route("/api/decks", func(r chi.Router) {
			r.Get("/", deckHandler.ListDecks)
			r.Post("/", deckHandler.CreateDeck)
			r.Get("/{deckId}", deckHandler.GetDeck)
			r.Put("/{deckId}", deckHandler.UpdateDeck)
			r.Delete("/{deckId}", deckHandler.DeleteDeck)
		})

		r.Post("/api/share", shareHandler.CreateLink)
		r.Delete("/api/share/{token}", shareHandler.RevokeLink)

		r.Get("/api/user/stats", userHandler.GetStats)
		r.Delete("/api/user", userHandler.DeleteAccount)

		r.Get("/api/ws", wsHandler.Connect)
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(custommw.AdminAuth(sessionRepo, userRepo, cfg.AdminEmails))
		r.Get("/api/admin/stats", adminHandler.GetStats)
	})

	// Create server
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Yu-Gi-Oh Collection Server starting on %s", cfg.ServerAddress)
		log.Printf("Card image cache path: %s", cfg.ImageStorage.BasePath)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
