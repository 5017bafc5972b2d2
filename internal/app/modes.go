package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bichocore/settler/internal/domain"
	"github.com/bichocore/settler/internal/notify"
	"github.com/bichocore/settler/internal/server"
	"github.com/bichocore/settler/internal/server/handler"
	"github.com/bichocore/settler/internal/server/ws"
	"github.com/bichocore/settler/internal/settlement"
)

// settleLockKey is the shared lock for batch passes; manual runs through
// the API contend on the same key.
const settleLockKey = "settlement:run"

// buildEngine assembles the settlement engine and its sibling services.
// hub may be nil in one-shot mode.
func (a *App) buildEngine(deps *Dependencies, hub settlement.Broadcaster) (*settlement.Engine, *settlement.Placement, *settlement.Callback) {
	var notifier settlement.Notifier
	if deps.Notifier != nil {
		notifier = notify.NewEventSender(deps.Notifier, "settlement", "Settlement")
	}

	var aggregator settlement.Aggregator
	if deps.Aggregator != nil {
		aggregator = deps.Aggregator
	}

	engine := settlement.NewEngine(deps.Wagers, deps.Settlements, deps.Results,
		aggregator, deps.Schedules, hub, notifier, a.logger)
	placement := settlement.NewPlacement(deps.Users, deps.Wagers, deps.Ledger,
		deps.Settlements, engine, a.logger)
	callback := settlement.NewCallback(deps.Wagers, deps.Settlements, a.logger)
	return engine, placement, callback
}

// runFilter builds the recurring pass filter from configuration.
func (a *App) runFilter() settlement.RunFilter {
	return settlement.RunFilter{
		Lottery:       a.cfg.Settlement.Lottery,
		UseAggregator: a.cfg.Settlement.UseAggregator,
	}
}

// ServeMode runs the HTTP + WebSocket API alongside the periodic
// settlement loop.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	g, ctx := errgroup.WithContext(ctx)

	hub := ws.NewHub(a.logger)
	g.Go(func() error {
		err := hub.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	engine, placement, callback := a.buildEngine(deps, hub)

	handlers := server.Handlers{
		Health:     handler.NewHealthHandler(a.logger),
		Wagers:     handler.NewWagerHandler(placement, deps.Wagers, deps.Ledger, a.logger),
		Results:    handler.NewResultsHandler(deps.Results, a.logger),
		Schedules:  handler.NewScheduleHandler(deps.Schedules, a.logger),
		Settlement: handler.NewSettlementHandler(engine, callback, deps.Wagers, deps.Locks, deps.CallbackAuth, a.logger),
	}

	if a.cfg.Server.Enabled {
		srv := server.NewServer(server.Config{
			Port:            a.cfg.Server.Port,
			CORSOrigins:     a.cfg.Server.CORSOrigins,
			APIKey:          a.cfg.Server.APIKey,
			RateLimit:       a.cfg.Server.RateLimit,
			RateLimitWindow: a.cfg.Server.RateLimitWindow.Duration,
		}, handlers, hub, deps.RateLimiter, a.logger)

		g.Go(srv.Start)
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		return a.settleLoop(ctx, engine, deps.Locks)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// SettleMode runs exactly one settlement pass and exits. Suitable for
// cron-style deployments.
func (a *App) SettleMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting settle mode")

	engine, _, _ := a.buildEngine(deps, nil)
	return a.settleOnce(ctx, engine, deps.Locks)
}

// settleLoop runs a pass immediately and then on every interval tick.
func (a *App) settleLoop(ctx context.Context, engine *settlement.Engine, locks domain.LockManager) error {
	interval := a.cfg.Settlement.Interval.Duration
	a.logger.InfoContext(ctx, "settlement loop started", slog.Duration("interval", interval))

	if err := a.settleOnce(ctx, engine, locks); err != nil {
		a.logger.WarnContext(ctx, "settlement pass failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := a.settleOnce(ctx, engine, locks); err != nil {
				a.logger.WarnContext(ctx, "settlement pass failed", slog.String("error", err.Error()))
			}
		}
	}
}

// settleOnce runs a single pass under the distributed lock when one is
// available. A pass already running elsewhere is skipped, not an error.
func (a *App) settleOnce(ctx context.Context, engine *settlement.Engine, locks domain.LockManager) error {
	if locks != nil {
		unlock, err := locks.Acquire(ctx, settleLockKey, 3*time.Minute)
		if err != nil {
			if errors.Is(err, domain.ErrLockHeld) {
				a.logger.InfoContext(ctx, "settlement pass skipped, lock held elsewhere")
				return nil
			}
			return err
		}
		defer unlock()
	}

	summary, err := engine.Run(ctx, a.runFilter())
	if err != nil {
		return err
	}
	if summary.Processed > 0 {
		a.logger.InfoContext(ctx, "settlement pass summary",
			slog.String("batch", summary.BatchID),
			slog.Int("processed", summary.Processed),
			slog.Int("settled", summary.Settled))
	}
	return nil
}
