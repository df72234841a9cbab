package writer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradinglab/marketsim/internal/model"
)

// Config contains archive writer configuration.
type Config struct {
	// BatchSize is the number of rows to accumulate before flushing.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration

	// BufferSize is the input queue capacity. A full queue drops the
	// record from the archive (the in-memory log still has it).
	BufferSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:     100,
		FlushInterval: time.Second,
		BufferSize:    1000,
	}
}

// Metrics contains runtime statistics.
type Metrics struct {
	Inserts   int64
	Conflicts int64
	Errors    int64
	Dropped   int64
	Flushes   int64
}

// Archiver consumes accepted transactions and writes them to the
// transactions table in batches.
type Archiver struct {
	cfg    Config
	logger *slog.Logger

	// Input from the ledger
	input chan model.Transaction

	// Database
	db *pgxpool.Pool

	// Batching
	batch       []model.Transaction
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Metrics
	metrics Metrics
}

// NewArchiver creates an archive writer.
func NewArchiver(cfg Config, db *pgxpool.Pool, logger *slog.Logger) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{
		cfg:    cfg,
		db:     db,
		logger: logger,
		input:  make(chan model.Transaction, cfg.BufferSize),
		batch:  make([]model.Transaction, 0, cfg.BatchSize),
	}
}

// Archive enqueues one transaction without blocking the ledger. Implements
// ledger.Sink.
func (w *Archiver) Archive(tx model.Transaction) {
	select {
	case w.input <- tx:
	default:
		w.batchMu.Lock()
		w.metrics.Dropped++
		w.batchMu.Unlock()
		w.logger.Warn("archive queue full, dropping transaction", "id", tx.ID)
	}
}

// Start begins consuming and flushing.
func (w *Archiver) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("transaction archiver started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down and flushes whatever remains.
func (w *Archiver) Stop(ctx context.Context) error {
	w.logger.Info("stopping transaction archiver")

	if w.cancel != nil {
		w.cancel()
	}
	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("transaction archiver stopped")
	case <-ctx.Done():
		w.logger.Warn("transaction archiver stop timed out")
	}

	// Final flush
	w.flush(context.Background())

	return nil
}

// Stats returns current metrics.
func (w *Archiver) Stats() Metrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// consumeLoop reads from the input queue and accumulates batches.
func (w *Archiver) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case tx := <-w.input:
			w.handle(tx)
		}
	}
}

// flushLoop periodically flushes the batch.
func (w *Archiver) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush(w.ctx)
		}
	}
}

// handle adds a transaction to the batch, flushing when full.
func (w *Archiver) handle(tx model.Transaction) {
	w.batchMu.Lock()
	w.batch = append(w.batch, tx)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush(w.ctx)
	}
}

// flush writes the current batch to the database.
func (w *Archiver) flush(ctx context.Context) {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]model.Transaction, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	conflicts, err := w.batchInsert(ctx, batch)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.metrics.Inserts += int64(len(batch) - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed transactions",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *Archiver) batchInsert(ctx context.Context, rows []model.Transaction) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, tx := range rows {
		news := ""
		channel := ""
		visual := ""
		sentiment := 0.0
		if tx.News.Present {
			news = tx.News.Headline
			channel = string(tx.News.Channel)
			visual = string(tx.News.Visual)
			sentiment = tx.News.Sentiment
		}

		batch.Queue(`
			INSERT INTO transactions (
				id, participant_id, kind, symbol, quantity, price, total,
				walltime, tick, news_headline, news_channel, news_sentiment,
				news_visual, reaction_delay
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (id) DO NOTHING
		`,
			tx.ID, tx.ParticipantID, string(tx.Kind), tx.Symbol, tx.Quantity,
			tx.Price, tx.Total, tx.Walltime, tx.Tick, news, channel, sentiment,
			visual, tx.ReactionDelay,
		)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
