package config

import "time"

// LabConfig is the root configuration for a lab server instance.
type LabConfig struct {
	Instance    InstanceConfig     `yaml:"instance"`
	Session     SessionConfig      `yaml:"session"`
	Engine      EngineConfig       `yaml:"engine"`
	Instruments []InstrumentConfig `yaml:"instruments"`
	Server      ServerConfig       `yaml:"server"`
	Database    DatabaseConfig     `yaml:"database"`
	Writer      WriterConfig       `yaml:"writer"`
	Kafka       KafkaConfig        `yaml:"kafka"`
}

// InstanceConfig identifies this lab server.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// SessionConfig holds session-level settings.
type SessionConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"` // Wall-clock time per market tick
	InitialCash  float64       `yaml:"initial_cash"`  // Starting cash per participant
	ReactionLag  int64         `yaml:"reaction_lag"`  // Initial reaction lag in ticks
	StaleAfter   time.Duration `yaml:"stale_after"`   // Staleness watchdog timeout
	LeaseTTL     time.Duration `yaml:"lease_ttl"`     // Coordinator lease duration
	AdminKey     string        `yaml:"admin_key"`     // Shared secret for admin endpoints
}

// EngineConfig holds the price process parameters.
type EngineConfig struct {
	Seed            int64   `yaml:"seed"`             // RNG seed; 0 = derive from wall clock
	Mu              float64 `yaml:"mu"`               // Base drift per tick
	Sigma           float64 `yaml:"sigma"`            // Base volatility per tick
	NoiseSigma      float64 `yaml:"noise_sigma"`      // Idiosyncratic noise volatility
	DecayLambda     float64 `yaml:"decay_lambda"`     // News impact decay rate
	LossAversion    float64 `yaml:"loss_aversion"`    // Negative news multiplier (> 1)
	GainDampener    float64 `yaml:"gain_dampener"`    // Positive news multiplier (< 1)
	MaxChange       float64 `yaml:"max_change"`       // Per-tick return clamp bound
	ReversionFactor float64 `yaml:"reversion_factor"` // Clawback share in the reversion window
	ReversionStart  int64   `yaml:"reversion_start"`  // Reversion window start (exclusive)
	ReversionEnd    int64   `yaml:"reversion_end"`    // Reversion window end (exclusive)
}

// InstrumentConfig seeds one instrument at session start.
type InstrumentConfig struct {
	Symbol   string  `yaml:"symbol"`
	Name     string  `yaml:"name"`
	Industry string  `yaml:"industry"`
	Price    float64 `yaml:"price"`
}

// ServerConfig holds the HTTP/WebSocket server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig holds the optional Postgres transaction archive.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// WriterConfig holds transaction archive writer settings.
type WriterConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// KafkaConfig holds the optional downstream tick stream.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}
