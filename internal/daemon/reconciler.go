package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/tagtile/internal/handlers"
	"github.com/1broseidon/tagtile/internal/models"
)

// WindowChecker returns the subset of handles the display server still knows.
type WindowChecker func(handles []models.WindowHandle) ([]models.WindowHandle, error)

// reconcileTarget is the part of Loop the reconciler drives.
type reconcileTarget interface {
	ManagedHandles(ctx context.Context) ([]models.WindowHandle, error)
	Inject(ctx context.Context, ev handlers.Event) error
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically drops windows that vanished without a destroy
// notification, so focus and dock space are never held by a dead window.
type Reconciler struct {
	interval time.Duration
	target   reconcileTarget
	exists   WindowChecker
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, target reconcileTarget, exists WindowChecker) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval: interval,
		target:   target,
		exists:   exists,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

// reconcile performs a single reconciliation pass and returns the handles
// it reported destroyed.
func (r *Reconciler) reconcile(ctx context.Context) (removed []models.WindowHandle) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	expected, err := r.target.ManagedHandles(ctx)
	if err != nil {
		r.logger.Error("reconciler: failed to list managed windows", "error", err)
		return nil
	}
	if len(expected) == 0 {
		return nil
	}

	actual, err := r.exists(expected)
	if err != nil {
		r.logger.Error("reconciler: failed to query windows", "error", err)
		return nil
	}

	alive := make(map[models.WindowHandle]bool, len(actual))
	for _, h := range actual {
		alive[h] = true
	}

	for _, h := range expected {
		if alive[h] {
			continue
		}
		r.logger.Info("reconciler: vanished window detected", "window", h)
		if err := r.target.Inject(ctx, handlers.DestroyEvent{Handle: h}); err != nil {
			r.logger.Warn("reconciler: failed to drop window", "window", h, "error", err)
			return removed
		}
		removed = append(removed, h)
	}
	return removed
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow(ctx context.Context) []models.WindowHandle {
	return r.reconcile(ctx)
}
