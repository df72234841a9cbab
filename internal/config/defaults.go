package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultTickInterval    = 2 * time.Second
	DefaultInitialCash     = 100000.0
	DefaultStaleAfter      = 5 * time.Second
	DefaultLeaseTTL        = 10 * time.Second
	DefaultMu              = 0.0002
	DefaultSigma           = 0.004
	DefaultNoiseSigma      = 0.002
	DefaultDecayLambda     = 0.08
	DefaultLossAversion    = 1.5
	DefaultGainDampener    = 0.75
	DefaultMaxChange       = 0.05
	DefaultReversionFactor = 0.25
	DefaultReversionStart  = 30
	DefaultReversionEnd    = 90
	DefaultServerAddr      = ":8080"
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultBatchSize       = 100
	DefaultFlushInterval   = 1 * time.Second
	DefaultBufferSize      = 1000
	DefaultKafkaTopic      = "marketsim.ticks"
)

// DefaultInstruments is the seed list used when none is configured.
var DefaultInstruments = []InstrumentConfig{
	{Symbol: "NOVA", Name: "Nova Semiconductors", Industry: "tech", Price: 120.00},
	{Symbol: "HELI", Name: "Helios Renewables", Industry: "energy", Price: 64.50},
	{Symbol: "ATLB", Name: "Atlantic Bancorp", Industry: "finance", Price: 88.25},
	{Symbol: "CURA", Name: "Curative Biolabs", Industry: "health", Price: 45.75},
	{Symbol: "MERX", Name: "Mercantile Exchange Goods", Industry: "consumer", Price: 31.10},
	{Symbol: "QDRA", Name: "Quadra Analytics", Industry: "tech", Price: 152.40},
}

func (c *LabConfig) applyDefaults() {
	// Session defaults
	if c.Session.TickInterval == 0 {
		c.Session.TickInterval = DefaultTickInterval
	}
	if c.Session.InitialCash == 0 {
		c.Session.InitialCash = DefaultInitialCash
	}
	if c.Session.StaleAfter == 0 {
		c.Session.StaleAfter = DefaultStaleAfter
	}
	if c.Session.LeaseTTL == 0 {
		c.Session.LeaseTTL = DefaultLeaseTTL
	}

	// Engine defaults
	if c.Engine.Mu == 0 {
		c.Engine.Mu = DefaultMu
	}
	if c.Engine.Sigma == 0 {
		c.Engine.Sigma = DefaultSigma
	}
	if c.Engine.NoiseSigma == 0 {
		c.Engine.NoiseSigma = DefaultNoiseSigma
	}
	if c.Engine.DecayLambda == 0 {
		c.Engine.DecayLambda = DefaultDecayLambda
	}
	if c.Engine.LossAversion == 0 {
		c.Engine.LossAversion = DefaultLossAversion
	}
	if c.Engine.GainDampener == 0 {
		c.Engine.GainDampener = DefaultGainDampener
	}
	if c.Engine.MaxChange == 0 {
		c.Engine.MaxChange = DefaultMaxChange
	}
	if c.Engine.ReversionFactor == 0 {
		c.Engine.ReversionFactor = DefaultReversionFactor
	}
	if c.Engine.ReversionStart == 0 {
		c.Engine.ReversionStart = DefaultReversionStart
	}
	if c.Engine.ReversionEnd == 0 {
		c.Engine.ReversionEnd = DefaultReversionEnd
	}

	// Instruments
	if len(c.Instruments) == 0 {
		c.Instruments = append([]InstrumentConfig(nil), DefaultInstruments...)
	}

	// Server defaults
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Writer defaults
	if c.Writer.BatchSize == 0 {
		c.Writer.BatchSize = DefaultBatchSize
	}
	if c.Writer.FlushInterval == 0 {
		c.Writer.FlushInterval = DefaultFlushInterval
	}
	if c.Writer.BufferSize == 0 {
		c.Writer.BufferSize = DefaultBufferSize
	}

	// Kafka defaults
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = DefaultKafkaTopic
	}
}
