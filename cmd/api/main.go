package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/contractor-scheduler/internal/audit"
	"github.com/BruksfildServices01/contractor-scheduler/internal/billing"
	"github.com/BruksfildServices01/contractor-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/contractor-scheduler/internal/db"
	"github.com/BruksfildServices01/contractor-scheduler/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/contractor-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/contractor-scheduler/internal/logger"
	"github.com/BruksfildServices01/contractor-scheduler/internal/media"
	"github.com/BruksfildServices01/contractor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/contractor-scheduler/internal/notify"
	"github.com/BruksfildServices01/contractor-scheduler/internal/routes"
)

const notifyBuffer = 256

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		return err
	}

	m := metrics.New()

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	defer auditDispatcher.Close()

	// ======================================================
	// NOTIFICATIONS AND QUOTA LOCK
	// ======================================================
	var sender notify.Sender = notify.NewLogSender(log)
	if cfg.SMSEnabled() {
		sender = notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	}

	var (
		locker   lock.Locker
		notifier notify.Dispatcher
	)
	if cfg.RedisURL != "" {
		client, err := dbpkg.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()

		locker = lock.NewRedisLocker(client, log)
		queue := notify.NewRedisQueue(client, cfg.NotifyQueue, sender, log, m)
		go queue.Run(ctx)
		notifier = queue
		log.Info("using redis for quota lock and notifications")
	} else {
		locker = lock.NewLocalLocker()
		queue := notify.NewChannelQueue(sender, log, m, notifyBuffer)
		defer queue.Close()
		notifier = queue
	}

	// ======================================================
	// OPTIONAL INTEGRATIONS
	// ======================================================
	deps := routes.Dependencies{
		DB:       db,
		Config:   cfg,
		Logger:   log,
		Metrics:  m,
		Locker:   locker,
		Notifier: notifier,
		Audit:    auditDispatcher,
	}

	if cfg.MercadoPagoAccessToken != "" {
		provider, err := billing.NewMercadoPagoProvider(billing.MercadoPagoOptions{
			AccessToken: cfg.MercadoPagoAccessToken,
			Amount:      cfg.SubscriptionAmount,
			Currency:    cfg.SubscriptionCurrency,
			BackURL:     cfg.SubscriptionBackURL,
		})
		if err != nil {
			return err
		}
		deps.Billing = provider

		if cfg.SubscriptionSyncInterval > 0 {
			reconciler := billing.NewReconciler(infraRepo.NewSubscriptionGormRepository(db), provider, log, m, false)
			go reconciler.Every(ctx, cfg.SubscriptionSyncInterval)
		}
	} else {
		log.Warn("MERCADOPAGO_ACCESS_TOKEN not set, subscriptions disabled")
	}

	if cfg.UploadsEnabled() {
		deps.Avatars = media.NewAvatars(media.NewS3Uploader(media.S3Options{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		}))
	}

	// ======================================================
	// HTTP SERVER
	// ======================================================
	r := gin.New()
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
