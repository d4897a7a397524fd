package config

import "time"

// Config is the root application configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Dump     DumpConfig     `yaml:"dump"`
	Extract  ExtractConfig  `yaml:"extract"`
	Database DatabaseConfig `yaml:"database"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// DumpConfig locates the multistream dump and its offset index.
type DumpConfig struct {
	Path      string `yaml:"path"       env:"DUMP_PATH"`
	IndexPath string `yaml:"index_path" env:"DUMP_INDEX_PATH"`
	Mmap      bool   `yaml:"mmap"       env:"DUMP_MMAP" env-default:"false"`
}

// ExtractConfig controls the extraction pipeline.
type ExtractConfig struct {
	Workers       int    `yaml:"workers"    env:"EXTRACT_WORKERS"    env-default:"1"`
	Window        int    `yaml:"window"     env:"EXTRACT_WINDOW"     env-default:"16"`
	MaxBlocks     int    `yaml:"max_blocks" env:"EXTRACT_MAX_BLOCKS" env-default:"0"`
	StrategiesRaw string `yaml:"strategies" env:"EXTRACT_STRATEGIES" env-default:""`
	BatchSize     int    `yaml:"batch_size" env:"EXTRACT_BATCH_SIZE" env-default:"500"`
	Debug         bool   `yaml:"debug"      env:"EXTRACT_DEBUG"      env-default:"false"`

	// Strategies is parsed from StrategiesRaw during validation.
	// Empty means the default cascade.
	Strategies []string `yaml:"-" env:"-"`
}

// DatabaseConfig holds PostgreSQL connection settings. An empty DSN
// disables the reading store.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"4"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.DSN != ""
}
