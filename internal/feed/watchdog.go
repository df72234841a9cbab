package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tradinglab/marketsim/internal/model"
)

// DefaultStaleAfter is how long a LIVE session may go without a snapshot
// before the connection is flagged stale.
const DefaultStaleAfter = 5 * time.Second

// Watchdog flags a subscription as stale when no snapshot has been observed
// for a fixed timeout while the session is LIVE. Display-only: it never
// pauses the coordinator.
type Watchdog struct {
	staleAfter time.Duration
	logger     *slog.Logger

	mu       sync.Mutex
	lastSeen time.Time
	status   model.SessionStatus
	stale    bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatchdog creates a watchdog. Zero staleAfter uses DefaultStaleAfter.
func NewWatchdog(staleAfter time.Duration, logger *slog.Logger) *Watchdog {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watchdog{
		staleAfter: staleAfter,
		logger:     logger,
		lastSeen:   time.Now(),
		status:     model.StatusWaiting,
	}
}

// Start begins the periodic staleness check.
func (w *Watchdog) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go w.run()
	return nil
}

// Stop shuts the watchdog down.
func (w *Watchdog) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Observe records a received snapshot.
func (w *Watchdog) Observe(snap model.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.lastSeen = time.Now()
	w.status = snap.Status
	if w.stale {
		w.stale = false
		w.logger.Info("connection recovered")
	}
}

// Stale reports whether the connection is currently flagged stale.
func (w *Watchdog) Stale() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stale
}

func (w *Watchdog) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.staleAfter / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *Watchdog) check() {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Only a LIVE session is expected to produce updates.
	if w.status != model.StatusLive || w.stale {
		return
	}
	if time.Since(w.lastSeen) > w.staleAfter {
		w.stale = true
		w.logger.Warn("no state update observed, flagging connection stale",
			"stale_after", w.staleAfter,
		)
	}
}
