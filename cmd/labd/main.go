package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradinglab/marketsim/internal/config"
	"github.com/tradinglab/marketsim/internal/coordinator"
	"github.com/tradinglab/marketsim/internal/database"
	"github.com/tradinglab/marketsim/internal/engine"
	"github.com/tradinglab/marketsim/internal/feed"
	"github.com/tradinglab/marketsim/internal/ledger"
	"github.com/tradinglab/marketsim/internal/model"
	"github.com/tradinglab/marketsim/internal/publish"
	"github.com/tradinglab/marketsim/internal/server"
	"github.com/tradinglab/marketsim/internal/version"
	"github.com/tradinglab/marketsim/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/labd.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting lab server",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"tick_interval", cfg.Session.TickInterval,
		"instruments", len(cfg.Instruments),
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Seed instruments and state channel
	seed := seedInstruments(cfg.Instruments)
	channel := feed.NewChannel(seed, logger)
	if cfg.Session.ReactionLag > 0 {
		if err := channel.SetLag(cfg.Session.ReactionLag); err != nil {
			logger.Error("failed to set initial reaction lag", "error", err)
			os.Exit(1)
		}
	}

	// Price evolution engine
	rngSeed := cfg.Engine.Seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	eng := engine.New(engineParams(cfg.Engine), rngSeed)
	logger.Info("engine initialized", "seed", rngSeed)

	// Tick coordinator
	coordCfg := coordinator.DefaultConfig()
	coordCfg.Interval = cfg.Session.TickInterval
	coordCfg.LeaseTTL = cfg.Session.LeaseTTL
	coord := coordinator.New(coordCfg, eng, channel, nil, logger)
	if err := coord.Start(ctx); err != nil {
		logger.Error("failed to start coordinator", "error", err)
		os.Exit(1)
	}

	// Optional transaction archive
	var sink ledger.Sink
	var archiver *writer.Archiver
	if cfg.Database.Enabled {
		logger.Info("connecting to database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		archiver = writer.NewArchiver(writer.Config{
			BatchSize:     cfg.Writer.BatchSize,
			FlushInterval: cfg.Writer.FlushInterval,
			BufferSize:    cfg.Writer.BufferSize,
		}, pool, logger)
		if err := archiver.Start(ctx); err != nil {
			logger.Error("failed to start archiver", "error", err)
			os.Exit(1)
		}
		sink = archiver
	}

	// Trade ledger
	ldg := ledger.New(channel, sink, decimal.NewFromFloat(cfg.Session.InitialCash), logger)

	// Staleness watchdog over its own subscription
	wd := feed.NewWatchdog(cfg.Session.StaleAfter, logger)
	if err := wd.Start(ctx); err != nil {
		logger.Error("failed to start watchdog", "error", err)
		os.Exit(1)
	}
	wdSub, wdCancel := channel.Subscribe()
	go func() {
		for snap := range wdSub {
			wd.Observe(snap)
		}
	}()

	// WebSocket hub
	hubSub, hubCancel := channel.Subscribe()
	hub := server.NewHub(hubSub, hubCancel, logger)
	if err := hub.Start(ctx); err != nil {
		logger.Error("failed to start websocket hub", "error", err)
		os.Exit(1)
	}

	// Optional downstream tick stream
	var relay *publish.Relay
	if cfg.Kafka.Enabled {
		relaySub, relayCancel := channel.Subscribe()
		pub := publish.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		relay = publish.NewRelay(relaySub, relayCancel, pub, logger)
		if err := relay.Start(ctx); err != nil {
			logger.Error("failed to start tick relay", "error", err)
			os.Exit(1)
		}
		logger.Info("kafka tick stream enabled", "topic", cfg.Kafka.Topic)
	}

	// HTTP/WebSocket server
	srv := server.New(server.Config{
		Addr:     cfg.Server.Addr,
		AdminKey: cfg.Session.AdminKey,
	}, channel, ldg, coord, hub, wd, seed, logger)
	if err := srv.Start(ctx); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	logger.Info("lab server running", "addr", cfg.Server.Addr)

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("shutting down")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()

	if err := srv.Stop(stopCtx); err != nil {
		logger.Warn("server stop failed", "error", err)
	}
	if relay != nil {
		if err := relay.Stop(stopCtx); err != nil {
			logger.Warn("relay stop failed", "error", err)
		}
	}
	if err := hub.Stop(stopCtx); err != nil {
		logger.Warn("hub stop failed", "error", err)
	}
	wdCancel()
	if err := wd.Stop(stopCtx); err != nil {
		logger.Warn("watchdog stop failed", "error", err)
	}
	if err := coord.Stop(stopCtx); err != nil {
		logger.Warn("coordinator stop failed", "error", err)
	}
	if archiver != nil {
		if err := archiver.Stop(stopCtx); err != nil {
			logger.Warn("archiver stop failed", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// seedInstruments converts config entries to model instruments.
func seedInstruments(entries []config.InstrumentConfig) []model.Instrument {
	out := make([]model.Instrument, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.Instrument{
			Symbol:   e.Symbol,
			Name:     e.Name,
			Industry: model.Industry(e.Industry),
			Price:    e.Price,
		})
	}
	return out
}

// engineParams converts engine config to engine parameters.
func engineParams(e config.EngineConfig) engine.Params {
	return engine.Params{
		Mu:              e.Mu,
		Sigma:           e.Sigma,
		NoiseSigma:      e.NoiseSigma,
		DecayLambda:     e.DecayLambda,
		LossAversion:    e.LossAversion,
		GainDampener:    e.GainDampener,
		MaxChange:       e.MaxChange,
		ReversionFactor: e.ReversionFactor,
		ReversionStart:  e.ReversionStart,
		ReversionEnd:    e.ReversionEnd,
	}
}
