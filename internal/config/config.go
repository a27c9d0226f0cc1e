// File: internal/config/config.go
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Interface is the contract components use to read configuration. It
// exists so tests can inject tweaked configs without touching viper.
type Interface interface {
	Logger() LoggerConfig
	Engine() EngineConfig
	Assembly() AssemblyConfig
	Aligner() AlignerConfig
	Database() DatabaseConfig

	SetEngineWorkerConcurrency(int)
	SetDatabaseDSN(string)
}

// Config is the whole application configuration.
type Config struct {
	LoggerC   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	EngineC   EngineConfig   `mapstructure:"engine" yaml:"engine"`
	AssemblyC AssemblyConfig `mapstructure:"assembly" yaml:"assembly"`
	AlignerC  AlignerConfig  `mapstructure:"aligner" yaml:"aligner"`
	DatabaseC DatabaseConfig `mapstructure:"database" yaml:"database"`
}

func (c *Config) Logger() LoggerConfig     { return c.LoggerC }
func (c *Config) Engine() EngineConfig     { return c.EngineC }
func (c *Config) Assembly() AssemblyConfig { return c.AssemblyC }
func (c *Config) Aligner() AlignerConfig   { return c.AlignerC }
func (c *Config) Database() DatabaseConfig { return c.DatabaseC }

func (c *Config) SetEngineWorkerConcurrency(w int) { c.EngineC.WorkerConcurrency = w }
func (c *Config) SetDatabaseDSN(dsn string)        { c.DatabaseC.DSN = dsn }

// LoggerConfig controls the global zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// EngineConfig controls the discovery pipeline.
type EngineConfig struct {
	// WorkerConcurrency bounds how many read clusters are processed in
	// parallel. Each worker owns its own assembler and aligner instance.
	WorkerConcurrency int `mapstructure:"worker_concurrency" yaml:"worker_concurrency"`
}

// AssemblyConfig tunes the contig assembler.
type AssemblyConfig struct {
	WordLength            int     `mapstructure:"word_length" yaml:"word_length"`
	MaxWordLength         int     `mapstructure:"max_word_length" yaml:"max_word_length"`
	MinContigLength       int     `mapstructure:"min_contig_length" yaml:"min_contig_length"`
	MinCoverage           int     `mapstructure:"min_coverage" yaml:"min_coverage"`
	MaxError              float64 `mapstructure:"max_error" yaml:"max_error"`
	MinSeedReads          int     `mapstructure:"min_seed_reads" yaml:"min_seed_reads"`
	MaxAssemblyIterations int     `mapstructure:"max_assembly_iterations" yaml:"max_assembly_iterations"`
}

// AlignerConfig carries the jump-aligner scoring. Mismatch, Open, Extend
// and Jump are penalties and must be negative.
type AlignerConfig struct {
	Match    int `mapstructure:"match" yaml:"match"`
	Mismatch int `mapstructure:"mismatch" yaml:"mismatch"`
	Open     int `mapstructure:"open" yaml:"open"`
	Extend   int `mapstructure:"extend" yaml:"extend"`
	Jump     int `mapstructure:"jump" yaml:"jump"`
}

// DatabaseConfig points at the optional postgres store. An empty DSN
// disables persistence.
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// Validate rejects configurations the core would panic on later.
func (c *Config) Validate() error {
	if c.EngineC.WorkerConcurrency < 1 {
		return fmt.Errorf("engine.worker_concurrency must be at least 1, got %d", c.EngineC.WorkerConcurrency)
	}
	a := c.AssemblyC
	if a.WordLength < 2 || a.MaxWordLength < a.WordLength {
		return fmt.Errorf("assembly word lengths out of range: %d..%d", a.WordLength, a.MaxWordLength)
	}
	if a.MaxError < 0 || a.MaxError >= 1 {
		return fmt.Errorf("assembly.max_error must lie in [0,1), got %g", a.MaxError)
	}
	if a.MinSeedReads < 1 || a.MinCoverage < 1 || a.MaxAssemblyIterations < 1 {
		return fmt.Errorf("assembly floors must be positive")
	}
	al := c.AlignerC
	if al.Match <= 0 {
		return fmt.Errorf("aligner.match must be positive, got %d", al.Match)
	}
	if al.Mismatch >= 0 || al.Open >= 0 || al.Extend >= 0 || al.Jump >= 0 {
		return fmt.Errorf("aligner penalties must be negative")
	}
	return nil
}

// SetDefaults installs the default values for every configuration key.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "svscout")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Engine --
	v.SetDefault("engine.worker_concurrency", 4)

	// -- Assembly --
	// Defaults sized for 30x coverage and 100bp reads.
	v.SetDefault("assembly.word_length", 37)
	v.SetDefault("assembly.max_word_length", 65)
	v.SetDefault("assembly.min_contig_length", 15)
	v.SetDefault("assembly.min_coverage", 1)
	v.SetDefault("assembly.max_error", 0.2)
	v.SetDefault("assembly.min_seed_reads", 2)
	v.SetDefault("assembly.max_assembly_iterations", 50)

	// -- Aligner --
	v.SetDefault("aligner.match", 1)
	v.SetDefault("aligner.mismatch", -4)
	v.SetDefault("aligner.open", -6)
	v.SetDefault("aligner.extend", -2)
	v.SetDefault("aligner.jump", -10)

	// -- Database --
	v.SetDefault("database.dsn", "")
}

// NewDefaultConfig builds a Config carrying only the defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with defaults only.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}
