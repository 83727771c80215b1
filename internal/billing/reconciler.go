package billing

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/contractor-scheduler/internal/metrics"
)

// Reconciler brings every stored link in line with the provider.
type Reconciler struct {
	store    Store
	provider Provider
	log      *zap.Logger
	metrics  *metrics.Metrics
	dryRun   bool
}

func NewReconciler(store Store, provider Provider, log *zap.Logger, m *metrics.Metrics, dryRun bool) *Reconciler {
	return &Reconciler{store: store, provider: provider, log: log, metrics: m, dryRun: dryRun}
}

type Report struct {
	Checked     int
	Activated   int
	Deactivated int
	Failed      int
}

// Run checks each link once. A provider failure on one link is logged and
// the link skipped.
func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	var rep Report

	links, err := r.store.ListWithProviderReference(ctx)
	if err != nil {
		return rep, fmt.Errorf("list subscriptions: %w", err)
	}

	for i := range links {
		if ctx.Err() != nil {
			return rep, ctx.Err()
		}
		link := &links[i]
		rep.Checked++

		sub, err := r.provider.Get(ctx, link.ProviderReference)
		if err != nil {
			rep.Failed++
			r.metrics.SubscriptionSynced("error")
			r.log.Warn("subscription lookup failed",
				zap.String("user_id", link.UserID.String()),
				zap.String("reference", link.ProviderReference),
				zap.Error(err),
			)
			continue
		}

		wasActive := link.Active()
		if !apply(link, sub) {
			r.metrics.SubscriptionSynced("unchanged")
			continue
		}

		switch {
		case !wasActive && link.Active():
			rep.Activated++
			r.metrics.SubscriptionSynced("activated")
		case wasActive && !link.Active():
			rep.Deactivated++
			r.metrics.SubscriptionSynced("deactivated")
		default:
			r.metrics.SubscriptionSynced("status_changed")
		}

		r.log.Info("subscription changed",
			zap.String("user_id", link.UserID.String()),
			zap.String("status", link.Status),
			zap.Bool("active", link.Active()),
			zap.Bool("dry_run", r.dryRun),
		)

		if r.dryRun {
			continue
		}
		if err := r.store.Save(ctx, link); err != nil {
			rep.Failed++
			r.log.Error("subscription save failed", zap.String("user_id", link.UserID.String()), zap.Error(err))
		}
	}

	return rep, nil
}

// Every runs the reconciler on a ticker until ctx is cancelled.
func (r *Reconciler) Every(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rep, err := r.Run(ctx)
			if err != nil {
				r.log.Error("subscription sync failed", zap.Error(err))
				continue
			}
			r.log.Info("subscription sync done",
				zap.Int("checked", rep.Checked),
				zap.Int("activated", rep.Activated),
				zap.Int("deactivated", rep.Deactivated),
				zap.Int("failed", rep.Failed),
			)
		}
	}
}
