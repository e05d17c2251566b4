// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file/env.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory notification queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of delivery workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the duplicate-id cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxUpcomingLimit caps GET /events/upcoming?limit.
	MaxUpcomingLimit int `koanf:"max_upcoming_limit"`

	// DBPath locates the sqlite event source. Empty selects the in-memory
	// stub source with simulated latency.
	DBPath string `koanf:"db_path"`

	// StubLatencyMinMS and StubLatencyMaxMS bound the stub source's
	// simulated round trip.
	StubLatencyMinMS int `koanf:"stub_latency_min_ms"`
	StubLatencyMaxMS int `koanf:"stub_latency_max_ms"`

	// ReminderSpec is the cron expression for the daily reminder sweep.
	ReminderSpec string `koanf:"reminder_spec"`

	// DefaultColor is the color token applied to events created without one.
	DefaultColor string `koanf:"default_color"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		QueueSize:        10_000,
		WorkerCount:      runtime.NumCPU() * 2,
		DedupeSize:       50_000,
		MaxUpcomingLimit: 100,
		DBPath:           "",
		StubLatencyMinMS: 80,
		StubLatencyMaxMS: 150,
		ReminderSpec:     "0 7 * * *",
		DefaultColor:     "sky",
	}
}
