package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/georgemunganga/storepulse/internal/config"
	"github.com/georgemunganga/storepulse/internal/database"
	"github.com/georgemunganga/storepulse/internal/modules/analytics"
	"github.com/georgemunganga/storepulse/internal/modules/auth"
	"github.com/georgemunganga/storepulse/internal/modules/customer"
	"github.com/georgemunganga/storepulse/internal/modules/ingest"
	"github.com/georgemunganga/storepulse/internal/modules/order"
	"github.com/georgemunganga/storepulse/internal/modules/shopify"
	"github.com/georgemunganga/storepulse/internal/modules/store"
	"github.com/georgemunganga/storepulse/internal/modules/syncjob"
	"github.com/georgemunganga/storepulse/internal/modules/user"
	"github.com/georgemunganga/storepulse/internal/modules/webhook"
	"github.com/georgemunganga/storepulse/internal/security"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal(err)
	}
	log.Printf("Connected to the database (%s driver)", cfg.DatabaseDriver)

	sealer, err := security.NewSealer(cfg.TokenEncKeyB64)
	if err != nil {
		log.Fatal(err)
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})

	// ── Store Registry & Identity ───────────────────────────
	storeRepo := store.NewPostgresRepository(db)
	storeService := store.NewService(storeRepo, sealer)

	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo, func(ctx context.Context, domain string) (int64, error) {
		s, err := storeService.Resolve(ctx, domain)
		if err != nil {
			return 0, err
		}
		return s.ID, nil
	})

	tokens := auth.NewTokenIssuer(cfg.JWTSecret)
	authHandler := auth.NewHandler(auth.NewService(userRepo, tokens))
	authHandler.RegisterRoutes(router)

	userHandler := user.NewHandler(userService, auth.StoreIDFromContext)
	if !cfg.IsProduction() {
		userHandler.RegisterSetupRoutes(router)
	}

	// ── Ingestion ───────────────────────────────────────────
	ingestService := ingest.NewService(
		customer.NewPostgresRepository(db),
		order.NewPostgresRepository(db),
	)

	webhookService := webhook.NewService(webhook.NewPostgresRepository(db), storeService, ingestService, cfg.ShopifyWebhookSecret)
	webhook.NewHandler(webhookService).RegisterRoutes(router)

	shopifyClient := shopify.NewClient(cfg.ShopifyAPIVersion, cfg.ShopifyBaseURL, cfg.SyncHTTPTimeout)
	syncer := syncjob.NewSyncer(storeService, shopifyClient, ingestService, cfg.SyncPageSize, cfg.SyncConcurrency)

	// ── Dashboard API ───────────────────────────────────────
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokens))

		authHandler.RegisterProtectedRoutes(r)
		userHandler.RegisterRoutes(r)
		store.NewHandler(storeService).RegisterRoutes(r)
		analytics.NewHandler(analytics.NewService(analytics.NewPostgresRepository(db))).RegisterRoutes(r)
		syncjob.NewHandler(syncer).RegisterRoutes(r)
	})

	// ── Sync Scheduler ──────────────────────────────────────
	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		syncjob.NewScheduler(syncer, cfg.SyncInterval).Start(ctx)
	}()

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("StorePulse API server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	<-schedulerDone
}
