package writer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradinglab/marketsim/internal/model"
)

func testTransaction() model.Transaction {
	return model.Transaction{
		ID:            uuid.New(),
		ParticipantID: "p1",
		Kind:          model.OrderBuy,
		Symbol:        "NOVA",
		Quantity:      10,
		Price:         decimal.NewFromInt(100),
		Total:         decimal.NewFromInt(1000),
		Walltime:      time.Now(),
		Tick:          5,
		ReactionDelay: model.NoNewsDelay,
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BatchSize != 100 {
		t.Errorf("BatchSize = %d, want 100", cfg.BatchSize)
	}
	if cfg.FlushInterval != time.Second {
		t.Errorf("FlushInterval = %v, want 1s", cfg.FlushInterval)
	}
	if cfg.BufferSize != 1000 {
		t.Errorf("BufferSize = %d, want 1000", cfg.BufferSize)
	}
}

func TestArchiverLifecycle(t *testing.T) {
	cfg := Config{
		BatchSize:     10,
		FlushInterval: 100 * time.Millisecond,
		BufferSize:    10,
	}
	w := NewArchiver(cfg, nil, nil)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := w.Stop(stopCtx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestArchiverHandleBatches(t *testing.T) {
	cfg := Config{
		BatchSize:     100,
		FlushInterval: time.Hour,
		BufferSize:    10,
	}
	w := NewArchiver(cfg, nil, nil)

	w.handle(testTransaction())
	w.handle(testTransaction())

	w.batchMu.Lock()
	got := len(w.batch)
	w.batchMu.Unlock()

	if got != 2 {
		t.Errorf("batch length = %d, want 2", got)
	}
}

func TestArchiveDropsWhenQueueFull(t *testing.T) {
	cfg := Config{
		BatchSize:     100,
		FlushInterval: time.Hour,
		BufferSize:    2,
	}
	// Never started, so nothing drains the input queue.
	w := NewArchiver(cfg, nil, nil)

	for i := 0; i < 5; i++ {
		w.Archive(testTransaction())
	}

	if got := w.Stats().Dropped; got != 3 {
		t.Errorf("Dropped = %d, want 3", got)
	}
	if len(w.input) != 2 {
		t.Errorf("queued = %d, want the buffer capacity 2", len(w.input))
	}
}
