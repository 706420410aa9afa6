package worker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"guardpost.app/registry/common/logger"
)

// ExpiredSessionDeleter is satisfied by service.AuthService.
type ExpiredSessionDeleter interface {
	ReapExpired(ctx context.Context) (int64, error)
}

// SessionReaper periodically deletes sessions past their expiry. Validation
// already ignores them; this only keeps the table small.
type SessionReaper struct {
	sessions ExpiredSessionDeleter
	interval time.Duration

	started   atomic.Bool
	stopOnce  sync.Once
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewSessionReaper(sessions ExpiredSessionDeleter, interval time.Duration) *SessionReaper {
	return &SessionReaper{
		sessions:  sessions,
		interval:  interval,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run starts the reaper loop. Blocks until Stop() is called or ctx is done.
func (r *SessionReaper) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "registry.worker.session_reaper",
	})

	r.started.Store(true)
	defer close(r.stoppedCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "session reaper started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			slog.InfoContext(ctx, "session reaper stopping")
			return
		case <-ticker.C:
			r.reapOnce(ctx)
		}
	}
}

// Stop signals the reaper to stop and waits for a running loop to exit.
// It is safe to call more than once, and before Run.
func (r *SessionReaper) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	if r.started.Load() {
		<-r.stoppedCh
	}
}

func (r *SessionReaper) reapOnce(ctx context.Context) {
	n, err := r.sessions.ReapExpired(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "session reap cycle failed", "error", err)
		return
	}
	if n > 0 {
		slog.InfoContext(ctx, "reaped expired sessions", "count", n)
	}
}
