// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"property-marketplace/internal/config"
	"property-marketplace/internal/domain/ports/adapter"
	"property-marketplace/internal/domain/ports/repository"
	pg "property-marketplace/internal/infra/db/postgres"
	"property-marketplace/internal/infra/logging"
	"property-marketplace/internal/infra/metrics"
	"property-marketplace/internal/infra/notify"
	"property-marketplace/internal/infra/payment"
	red "property-marketplace/internal/infra/redis"
	"property-marketplace/internal/infra/sched"
	"property-marketplace/internal/infra/web"
	"property-marketplace/internal/infra/worker"
	"property-marketplace/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logging, relaxed sampling)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Runtime.Dev {
		log.Printf("[DEV MODE] Enabled")
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	tm := pg.NewTxManager(pool)

	// ---- Redis (optional; guards and rate limits degrade to open) ----
	var (
		guard   *red.EventGuard
		limiter *red.RateLimiter
	)
	if cfg.Redis.Addr != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		guard = red.NewEventGuard(redisClient)
		limiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Warn().Msg("redis not configured; webhook dedup guard and rate limiting disabled")
	}

	// ---- Repositories ----
	paymentRepo := pg.NewPaymentRepo(pool)
	premiumRepo := pg.NewPremiumListingRepo(pool)
	propertyRepo := pg.NewPropertyRepo(pool)
	planRepo := pg.NewPlanRepo(pool)
	activityRepo := pg.NewActivityLogRepo(pool)

	// ---- Gateway + notifier ----
	gateway := payment.NewXenditGateway(cfg.Gateway.SecretKey, cfg.Gateway.BaseURL)

	var notifier adapter.OpsNotifier = notify.NoopNotifier{}
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != 0 {
		tg, err := notify.NewTelegramNotifier(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID)
		if err != nil {
			log.Fatalf("telegram notifier: %v", err)
		}
		notifier = tg
	}

	// ---- Use cases ----
	var guardPort repository.EventGuard
	if guard != nil {
		guardPort = guard
	}
	reconcileUC := usecase.NewReconcileUseCase(paymentRepo, premiumRepo, propertyRepo, planRepo, activityRepo, tm, guardPort, notifier, logger)
	premiumUC := usecase.NewPremiumUseCase(paymentRepo, premiumRepo, propertyRepo, planRepo, activityRepo, gateway, tm, logger)
	listingUC := usecase.NewListingUseCase(propertyRepo)
	planUC := usecase.NewPlanUseCase(planRepo)
	statsUC := usecase.NewStatsUseCase(propertyRepo, premiumRepo, paymentRepo)

	// ---- Worker pool for fire-and-forget counter writes ----
	pool0 := worker.NewPool(cfg.Scheduler.Workers)
	pool0.Start(ctx)
	defer pool0.Stop()

	// ---- HTTP ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, cfg.Admin.SessionTTL)
	apiSrv := web.NewServer(statsUC, listingUC, premiumUC, planUC, activityRepo, auth, cfg.Admin.APIKey, pool0, logger)

	var srcLimiter web.SourceLimiter
	if limiter != nil {
		srcLimiter = limiter
	}
	webhook := web.NewWebhookHandler(reconcileUC, cfg.Gateway.CallbackToken, srcLimiter, cfg.Server.WebhookRateLimit, cfg.Server.WebhookRateWindow, logger)

	router := chi.NewRouter()
	web.RegisterRoutes(router, apiSrv)
	router.Handle("/payment-webhook", webhook)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Background sweeps ----
	expiry := sched.NewExpiryWorker(cfg.Scheduler.ExpiryInterval, premiumUC, logger)
	go func() { _ = expiry.Run(ctx) }()

	reconciler := sched.NewPaymentReconciler(reconcileUC, paymentRepo, gateway, cfg.Scheduler.ReconcileInterval, cfg.Scheduler.StaleAfter)
	go reconciler.Start(ctx)

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	log.Println("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
