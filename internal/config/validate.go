package config

import (
	"errors"
	"fmt"
)

// validIndustries mirrors the model.Industry enum. Kept as strings here so
// the config package stays dependency-free.
var validIndustries = map[string]bool{
	"tech":     true,
	"energy":   true,
	"finance":  true,
	"health":   true,
	"consumer": true,
}

// Validate checks that all required fields are set and values are valid.
func (c *LabConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Session.TickInterval <= 0 {
		return errors.New("session.tick_interval must be positive")
	}
	if c.Session.InitialCash <= 0 {
		return errors.New("session.initial_cash must be positive")
	}
	if c.Session.ReactionLag < 0 {
		return errors.New("session.reaction_lag must be >= 0")
	}
	if c.Session.AdminKey == "" {
		return errors.New("session.admin_key is required")
	}

	if c.Engine.Sigma < 0 || c.Engine.NoiseSigma < 0 {
		return errors.New("engine volatilities must be >= 0")
	}
	if c.Engine.MaxChange <= 0 || c.Engine.MaxChange >= 1 {
		return fmt.Errorf("engine.max_change must be in (0, 1), got %v", c.Engine.MaxChange)
	}
	if c.Engine.LossAversion < 1 {
		return fmt.Errorf("engine.loss_aversion must be >= 1, got %v", c.Engine.LossAversion)
	}
	if c.Engine.GainDampener <= 0 || c.Engine.GainDampener > 1 {
		return fmt.Errorf("engine.gain_dampener must be in (0, 1], got %v", c.Engine.GainDampener)
	}
	if c.Engine.ReversionStart >= c.Engine.ReversionEnd {
		return fmt.Errorf("engine reversion window (%d, %d) is empty",
			c.Engine.ReversionStart, c.Engine.ReversionEnd)
	}

	if len(c.Instruments) == 0 {
		return errors.New("at least one instrument is required")
	}
	seen := make(map[string]bool, len(c.Instruments))
	for i, in := range c.Instruments {
		if in.Symbol == "" {
			return fmt.Errorf("instruments[%d].symbol is required", i)
		}
		if seen[in.Symbol] {
			return fmt.Errorf("duplicate instrument symbol %q", in.Symbol)
		}
		seen[in.Symbol] = true
		if in.Price <= 0 {
			return fmt.Errorf("instruments[%d].price must be positive", i)
		}
		if !validIndustries[in.Industry] {
			return fmt.Errorf("instruments[%d].industry %q is unknown", i, in.Industry)
		}
	}

	if c.Database.Enabled {
		if err := c.Database.validate("database"); err != nil {
			return err
		}
		if c.Writer.BatchSize < 1 {
			return errors.New("writer.batch_size must be >= 1")
		}
		if c.Writer.BufferSize < 1 {
			return errors.New("writer.buffer_size must be >= 1")
		}
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers is required when kafka is enabled")
	}

	return nil
}

func (db *DatabaseConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
