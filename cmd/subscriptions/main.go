// Command subscriptions reconciles every stored subscription link with the
// billing provider once and exits.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/contractor-scheduler/internal/billing"
	"github.com/BruksfildServices01/contractor-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/contractor-scheduler/internal/db"
	infraRepo "github.com/BruksfildServices01/contractor-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/contractor-scheduler/internal/logger"
	"github.com/BruksfildServices01/contractor-scheduler/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		envFile string
		dryRun  bool
	)

	flagSet := pflag.NewFlagSet("subscriptions", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	flagSet.BoolVar(&dryRun, "dry-run", false, "report changes without saving them")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg := config.Load(envFile)

	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.MercadoPagoAccessToken == "" {
		return errors.New("MERCADOPAGO_ACCESS_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		return err
	}

	provider, err := billing.NewMercadoPagoProvider(billing.MercadoPagoOptions{
		AccessToken: cfg.MercadoPagoAccessToken,
		Amount:      cfg.SubscriptionAmount,
		Currency:    cfg.SubscriptionCurrency,
		BackURL:     cfg.SubscriptionBackURL,
	})
	if err != nil {
		return err
	}

	reconciler := billing.NewReconciler(
		infraRepo.NewSubscriptionGormRepository(db),
		provider,
		log,
		metrics.New(),
		dryRun,
	)

	rep, err := reconciler.Run(ctx)
	if err != nil {
		return err
	}

	log.Info("subscription sync done",
		zap.Bool("dry_run", dryRun),
		zap.Int("checked", rep.Checked),
		zap.Int("activated", rep.Activated),
		zap.Int("deactivated", rep.Deactivated),
		zap.Int("failed", rep.Failed),
	)
	return nil
}
