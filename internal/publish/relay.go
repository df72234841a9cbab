package publish

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tradinglab/marketsim/internal/model"
)

// Relay consumes a feed subscription and forwards tick changes to a
// Publisher. Non-tick changes (news, status, lag) are not forwarded.
type Relay struct {
	sub    <-chan model.Snapshot
	cancel func()
	pub    Publisher
	logger *slog.Logger

	lastTick int64

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// NewRelay creates a relay over an existing feed subscription.
func NewRelay(sub <-chan model.Snapshot, cancelSub func(), pub Publisher, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		sub:      sub,
		cancel:   cancelSub,
		pub:      pub,
		logger:   logger,
		lastTick: -1,
	}
}

// Start begins forwarding.
func (r *Relay) Start(ctx context.Context) error {
	r.ctx, r.stop = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.run()

	r.logger.Info("tick relay started")
	return nil
}

// Stop shuts the relay down and releases its feed subscription.
func (r *Relay) Stop(ctx context.Context) error {
	if r.stop != nil {
		r.stop()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	r.cancel()
	if err := r.pub.Close(); err != nil {
		r.logger.Warn("publisher close failed", "error", err)
	}
	r.logger.Info("tick relay stopped")
	return nil
}

func (r *Relay) run() {
	defer r.wg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		case snap, ok := <-r.sub:
			if !ok {
				return
			}
			if snap.Tick == r.lastTick {
				continue
			}
			r.lastTick = snap.Tick

			if err := r.pub.PublishTick(r.ctx, snap); err != nil {
				r.logger.Warn("tick publish to stream failed", "tick", snap.Tick, "error", err)
			}
		}
	}
}
