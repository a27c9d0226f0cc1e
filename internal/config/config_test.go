// File: internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "svscout", cfg.Logger().ServiceName)
	assert.Equal(t, 4, cfg.Engine().WorkerConcurrency)

	a := cfg.Assembly()
	assert.Equal(t, 37, a.WordLength)
	assert.Equal(t, 65, a.MaxWordLength)
	assert.Equal(t, 15, a.MinContigLength)
	assert.Equal(t, 1, a.MinCoverage)
	assert.InDelta(t, 0.2, a.MaxError, 1e-9)
	assert.Equal(t, 2, a.MinSeedReads)
	assert.Equal(t, 50, a.MaxAssemblyIterations)

	al := cfg.Aligner()
	assert.Equal(t, 1, al.Match)
	assert.Equal(t, -4, al.Mismatch)
	assert.Equal(t, -6, al.Open)
	assert.Equal(t, -2, al.Extend)
	assert.Equal(t, -10, al.Jump)

	assert.Empty(t, cfg.Database().DSN)
}

func TestConfigSetters(t *testing.T) {
	cfg := NewDefaultConfig()

	cfg.SetEngineWorkerConcurrency(16)
	assert.Equal(t, 16, cfg.Engine().WorkerConcurrency)

	cfg.SetDatabaseDSN("postgres://localhost/svscout")
	assert.Equal(t, "postgres://localhost/svscout", cfg.Database().DSN)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.EngineC.WorkerConcurrency = 0 }},
		{"word length too small", func(c *Config) { c.AssemblyC.WordLength = 1 }},
		{"max word below word", func(c *Config) { c.AssemblyC.MaxWordLength = 10 }},
		{"error rate out of range", func(c *Config) { c.AssemblyC.MaxError = 1.0 }},
		{"zero seed reads", func(c *Config) { c.AssemblyC.MinSeedReads = 0 }},
		{"non-positive match", func(c *Config) { c.AlignerC.Match = 0 }},
		{"non-negative mismatch", func(c *Config) { c.AlignerC.Mismatch = 4 }},
		{"non-negative jump", func(c *Config) { c.AlignerC.Jump = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
