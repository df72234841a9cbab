// exporter dumps archived transactions from Postgres to CSV for grading
// and post-session review.
//
// Usage: go run ./cmd/exporter --config configs/labd.local.yaml --out trades.csv
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/tradinglab/marketsim/internal/config"
	"github.com/tradinglab/marketsim/internal/database"
)

func main() {
	configPath := flag.String("config", "configs/labd.local.yaml", "path to config file")
	outPath := flag.String("out", "transactions.csv", "output CSV path")
	participant := flag.String("participant", "", "filter by participant ID (empty = all)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if !cfg.Database.Enabled {
		logger.Error("database is not enabled in config")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	query := `
		SELECT id, participant_id, kind, symbol, quantity, price, total,
		       walltime, tick, news_headline, news_channel, news_sentiment,
		       news_visual, reaction_delay
		FROM transactions`
	args := []any{}
	if *participant != "" {
		query += " WHERE participant_id = $1"
		args = append(args, *participant)
	}
	query += " ORDER BY walltime"

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("query failed", "error", err)
		os.Exit(1)
	}
	defer rows.Close()

	out, err := os.Create(*outPath)
	if err != nil {
		logger.Error("failed to create output file", "error", err)
		os.Exit(1)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	header := []string{
		"id", "participant_id", "kind", "symbol", "quantity", "price", "total",
		"walltime", "tick", "news_headline", "news_channel", "news_sentiment",
		"news_visual", "reaction_delay",
	}
	if err := w.Write(header); err != nil {
		logger.Error("failed to write header", "error", err)
		os.Exit(1)
	}

	count := 0
	for rows.Next() {
		var (
			id, participantID, kind, symbol  string
			quantity, tick, reactionDelay    int64
			price, total                     string
			walltime                         time.Time
			newsHeadline, channel, visual    *string
			newsSentiment                    *float64
		)
		if err := rows.Scan(&id, &participantID, &kind, &symbol, &quantity,
			&price, &total, &walltime, &tick, &newsHeadline, &channel,
			&newsSentiment, &visual, &reactionDelay); err != nil {
			logger.Error("row scan failed", "error", err)
			os.Exit(1)
		}

		record := []string{
			id, participantID, kind, symbol,
			strconv.FormatInt(quantity, 10),
			price, total,
			walltime.UTC().Format(time.RFC3339Nano),
			strconv.FormatInt(tick, 10),
			deref(newsHeadline), deref(channel),
			floatOrEmpty(newsSentiment),
			deref(visual),
			strconv.FormatInt(reactionDelay, 10),
		}
		if err := w.Write(record); err != nil {
			logger.Error("failed to write record", "error", err)
			os.Exit(1)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		logger.Error("row iteration failed", "error", err)
		os.Exit(1)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		logger.Error("csv flush failed", "error", err)
		os.Exit(1)
	}

	logger.Info("export complete", "rows", count, "path", *outPath)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatOrEmpty(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
