package coordinator

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tradinglab/marketsim/internal/engine"
	"github.com/tradinglab/marketsim/internal/feed"
	"github.com/tradinglab/marketsim/internal/model"
)

// Config holds coordinator settings.
type Config struct {
	Interval     time.Duration // Wall-clock time per tick (default: 2s)
	LeaseTTL     time.Duration // Single-writer lease duration (default: 10s)
	BackoffBase  time.Duration // First retry delay after a publish failure (default: 500ms)
	BackoffLimit time.Duration // Retry delay cap (default: 30s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:     2 * time.Second,
		LeaseTTL:     DefaultLeaseTTL,
		BackoffBase:  500 * time.Millisecond,
		BackoffLimit: 30 * time.Second,
	}
}

// Stats contains runtime statistics.
type Stats struct {
	TicksPublished  int64
	TicksSkipped    int64
	PublishFailures int64
	Degraded        bool // Publishing is currently failing and backing off
}

// Coordinator runs the tick loop.
type Coordinator struct {
	cfg     Config
	eng     *engine.Engine
	channel *feed.Channel
	lease   *Lease
	id      uuid.UUID
	logger  *slog.Logger

	// Non-reentrancy guard: a new tick must not start before the previous
	// publish completes.
	inFlight atomic.Bool

	mu          sync.Mutex
	stats       Stats
	failures    int
	nextAttempt time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a coordinator. A nil lease gets a private one, which still
// enforces non-reentrancy within this process.
func New(cfg Config, eng *engine.Engine, channel *feed.Channel, lease *Lease, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if lease == nil {
		lease = NewLease(cfg.LeaseTTL)
	}
	return &Coordinator{
		cfg:     cfg,
		eng:     eng,
		channel: channel,
		lease:   lease,
		id:      uuid.New(),
		logger:  logger,
	}
}

// ID returns the coordinator's lease identity.
func (c *Coordinator) ID() uuid.UUID {
	return c.id
}

// Start begins the tick loop.
func (c *Coordinator) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.run()

	c.logger.Info("tick coordinator started",
		"interval", c.cfg.Interval,
		"coordinator_id", c.id,
	)
	return nil
}

// Stop gracefully shuts down the loop and releases the lease.
func (c *Coordinator) Stop(ctx context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.lease.Release(c.id)
		c.logger.Info("tick coordinator stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns current statistics.
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// run is the fixed-period timer loop.
func (c *Coordinator) run() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}

// Tick runs one coordinated tick: lease check, engine pass over every
// instrument, one journal append. Exported for tests and the offline
// runner; a tick already in flight is skipped, never overlapped.
func (c *Coordinator) Tick() {
	if !c.inFlight.CompareAndSwap(false, true) {
		c.skip("previous tick still in flight")
		return
	}
	defer c.inFlight.Store(false)

	snap := c.channel.Snapshot()
	if snap.Status != model.StatusLive {
		return
	}

	// Back off after publish failures instead of hammering the channel.
	c.mu.Lock()
	waiting := c.failures > 0 && time.Now().Before(c.nextAttempt)
	c.mu.Unlock()
	if waiting {
		c.skip("publish backoff in effect")
		return
	}

	if !c.lease.Acquire(c.id) {
		c.skip("lease held by another coordinator")
		return
	}

	next := snap.Tick + 1
	prices := c.evolve(snap, next)

	if err := c.channel.ApplyTick(next, prices); err != nil {
		c.publishFailed(next, err)
		return
	}
	c.publishOK(next)
}

// evolve runs the engine over every instrument in symbol order, so the
// random draw sequence is reproducible for a given seed.
func (c *Coordinator) evolve(snap model.Snapshot, tick int64) map[string]float64 {
	symbols := make([]string, 0, len(snap.Instruments))
	for sym := range snap.Instruments {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	prices := make(map[string]float64, len(symbols))
	for _, sym := range symbols {
		in := snap.Instruments[sym]
		r := c.eng.Evolve(&in, tick, snap.Events, snap.ReactionLag)
		prices[sym] = in.Price

		if r.Clamped {
			c.logger.Debug("return clamped",
				"symbol", sym,
				"tick", tick,
				"news_raw", r.NewsRaw,
			)
		}
	}
	return prices
}

func (c *Coordinator) publishOK(tick int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.TicksPublished++
	if c.failures > 0 {
		c.logger.Info("publish recovered", "tick", tick, "after_failures", c.failures)
	}
	c.failures = 0
	c.stats.Degraded = false
}

func (c *Coordinator) publishFailed(tick int64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failures++
	c.stats.PublishFailures++
	c.stats.Degraded = true

	delay := c.cfg.BackoffBase << (c.failures - 1)
	if delay > c.cfg.BackoffLimit || delay <= 0 {
		delay = c.cfg.BackoffLimit
	}
	c.nextAttempt = time.Now().Add(delay)

	c.logger.Warn("tick publish failed",
		"tick", tick,
		"error", err,
		"retry_in", delay,
	)
}

func (c *Coordinator) skip(reason string) {
	c.mu.Lock()
	c.stats.TicksSkipped++
	c.mu.Unlock()
	c.logger.Debug("tick skipped", "reason", reason)
}
