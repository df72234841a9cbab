package feed

import (
	"context"
	"testing"
	"time"

	"github.com/tradinglab/marketsim/internal/model"
)

func TestWatchdogFlagsStaleLiveSession(t *testing.T) {
	w := NewWatchdog(30*time.Millisecond, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop(context.Background())

	w.Observe(model.Snapshot{Status: model.StatusLive})

	deadline := time.After(time.Second)
	for !w.Stale() {
		select {
		case <-deadline:
			t.Fatal("watchdog never flagged a silent LIVE session")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestWatchdogIgnoresIdleStates(t *testing.T) {
	w := NewWatchdog(20*time.Millisecond, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop(context.Background())

	for _, status := range []model.SessionStatus{model.StatusWaiting, model.StatusPaused, model.StatusEnded} {
		w.Observe(model.Snapshot{Status: status})
		time.Sleep(60 * time.Millisecond)
		if w.Stale() {
			t.Errorf("status %s: watchdog flagged a session that is not LIVE", status)
		}
	}
}

func TestWatchdogRecovers(t *testing.T) {
	w := NewWatchdog(20*time.Millisecond, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop(context.Background())

	w.Observe(model.Snapshot{Status: model.StatusLive})

	deadline := time.After(time.Second)
	for !w.Stale() {
		select {
		case <-deadline:
			t.Fatal("watchdog never went stale")
		case <-time.After(5 * time.Millisecond):
		}
	}

	w.Observe(model.Snapshot{Status: model.StatusLive})
	if w.Stale() {
		t.Error("observing a snapshot must clear the stale flag immediately")
	}
}

func TestWatchdogStop(t *testing.T) {
	w := NewWatchdog(10*time.Millisecond, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := w.Stop(context.Background()); err != nil {
		t.Errorf("Stop: %v", err)
	}
}
