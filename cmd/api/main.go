package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/georgemunganga/storefront-checkout/internal/config"
	"github.com/georgemunganga/storefront-checkout/internal/modules/auth"
	"github.com/georgemunganga/storefront-checkout/internal/modules/catalog"
	"github.com/georgemunganga/storefront-checkout/internal/modules/checkout"
	"github.com/georgemunganga/storefront-checkout/internal/modules/order"
	"github.com/georgemunganga/storefront-checkout/internal/modules/promotion"
	"github.com/georgemunganga/storefront-checkout/internal/platform/httpx"
	"github.com/georgemunganga/storefront-checkout/internal/platform/logger"
	"github.com/georgemunganga/storefront-checkout/internal/platform/messaging"
	"github.com/georgemunganga/storefront-checkout/internal/platform/messaging/kafka"
	"github.com/georgemunganga/storefront-checkout/internal/platform/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.IsProduction())
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()
	log.Info("connected to database")

	// ── Promotion lookups, optionally cached in Redis ───────
	promotionRepo := promotion.NewPostgresRepository(db)
	var promotionFinder promotion.Finder = promotionRepo
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		rdb := redis.NewClient(opt)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, promotion lookups will hit the database", zap.Error(err))
		}
		promotionFinder = promotion.NewCachedFinder(promotionRepo, rdb, cfg.PromotionCacheTTL, log)
	}
	promotionEngine := promotion.NewEngine(promotionFinder, log)

	// ── Order events ────────────────────────────────────────
	var publisher messaging.Publisher = messaging.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = kafka.NewPublisher(cfg.KafkaBrokers)
		log.Info("publishing order events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.OrderEventsTopic))
	}
	defer publisher.Close()

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httpx.RequestLogger(log))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", healthz(db))

	// ── Identity ────────────────────────────────────────────
	authService := auth.NewService(auth.NewPostgresUserRepository(db), cfg.JWTSecret, 24*time.Hour)
	auth.NewHandler(authService, log).RegisterRoutes(router)

	// ── Checkout ────────────────────────────────────────────
	checkoutService := checkout.NewService(
		checkout.NewValidator(catalog.NewPostgresRepository(db)),
		checkout.Pricing{TaxRate: cfg.TaxRate, ShippingFee: cfg.ShippingFee},
		promotionEngine,
		checkout.NewPostgresStore(db, cfg.LockTimeout),
		log,
		checkout.WithPublisher(publisher, cfg.OrderEventsTopic),
		checkout.WithCommitTimeout(cfg.CommitTimeout),
	)
	checkout.NewHandler(checkoutService, authService, log).RegisterRoutes(router)

	// ── Orders & promotions ─────────────────────────────────
	orderService := order.NewService(order.NewPostgresRepository(db), log)
	order.NewHandler(orderService, authService, log).RegisterRoutes(router)
	promotion.NewHandler(promotionEngine, log).RegisterRoutes(router)

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("storefront API server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.CommitTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func healthz(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			httpx.Respond(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httpx.Respond(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
