// Package config loads and validates lab server configuration.
//
// Configuration is YAML with ${VAR} environment expansion. Loading is split
// into Load (parse), applyDefaults (fill optional fields), and Validate
// (reject bad required fields); LoadAndValidate chains all three.
package config
