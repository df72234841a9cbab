// simrun runs the price engine offline for a fixed number of ticks and
// prints the resulting price paths to console. Useful for tuning engine
// parameters before a live session.
//
// Usage: go run ./cmd/simrun --config configs/labd.local.yaml --ticks 200
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/tradinglab/marketsim/internal/config"
	"github.com/tradinglab/marketsim/internal/engine"
	"github.com/tradinglab/marketsim/internal/model"
)

func main() {
	configPath := flag.String("config", "configs/labd.local.yaml", "path to config file")
	ticks := flag.Int64("ticks", 120, "number of ticks to simulate")
	seed := flag.Int64("seed", 1, "RNG seed")
	newsTick := flag.Int64("news-tick", 0, "inject a demo news event at this tick (0 = none)")
	newsSentiment := flag.Float64("news-sentiment", -0.8, "sentiment of the demo event")
	every := flag.Int64("every", 10, "print prices every N ticks")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	instruments := make([]model.Instrument, 0, len(cfg.Instruments))
	for _, e := range cfg.Instruments {
		instruments = append(instruments, model.Instrument{
			Symbol:   e.Symbol,
			Name:     e.Name,
			Industry: model.Industry(e.Industry),
			Price:    e.Price,
		})
	}
	sort.Slice(instruments, func(i, j int) bool {
		return instruments[i].Symbol < instruments[j].Symbol
	})

	params := engine.Params{
		Mu:              cfg.Engine.Mu,
		Sigma:           cfg.Engine.Sigma,
		NoiseSigma:      cfg.Engine.NoiseSigma,
		DecayLambda:     cfg.Engine.DecayLambda,
		LossAversion:    cfg.Engine.LossAversion,
		GainDampener:    cfg.Engine.GainDampener,
		MaxChange:       cfg.Engine.MaxChange,
		ReversionFactor: cfg.Engine.ReversionFactor,
		ReversionStart:  cfg.Engine.ReversionStart,
		ReversionEnd:    cfg.Engine.ReversionEnd,
	}
	eng := engine.New(params, *seed)

	logger.Info("simulation start",
		"instruments", len(instruments),
		"ticks", *ticks,
		"seed", *seed,
	)

	var events []model.NewsEvent
	printHeader(instruments)

	for tick := int64(1); tick <= *ticks; tick++ {
		if *newsTick > 0 && tick == *newsTick {
			events = append(events, model.NewsEvent{
				ID:         1,
				Headline:   "demo event",
				Target:     model.MarketTarget(),
				Sentiment:  *newsSentiment,
				Channel:    model.ChannelTV,
				Visual:     model.VisualBreaking,
				InjectedAt: tick,
			})
			logger.Info("news injected", "tick", tick, "sentiment", *newsSentiment)
		}

		for i := range instruments {
			eng.Evolve(&instruments[i], tick, events, 0)
		}

		if tick%*every == 0 || tick == *ticks {
			printRow(tick, instruments)
		}
	}
}

func printHeader(instruments []model.Instrument) {
	fmt.Printf("%8s", "tick")
	for _, in := range instruments {
		fmt.Printf(" %10s", in.Symbol)
	}
	fmt.Println()
}

func printRow(tick int64, instruments []model.Instrument) {
	fmt.Printf("%8d", tick)
	for _, in := range instruments {
		fmt.Printf(" %10.2f", in.Price)
	}
	fmt.Println()
}
