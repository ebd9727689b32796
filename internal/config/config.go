package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "MCHAIN"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	LogConfig LogConfig       `mapstructure:"log_config"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Stats     StatsConfig     `mapstructure:"stats"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver                 string `mapstructure:"driver"`
	DSN                    string `mapstructure:"dsn"`
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port"`
	User                   string `mapstructure:"user"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname"`
	SSLMode                string `mapstructure:"sslmode"`
	Path                   string `mapstructure:"path"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int    `mapstructure:"conn_max_lifetime_seconds"`
}

type LogConfig struct {
	File      string `mapstructure:"file"`
	Level     string `mapstructure:"level"`
	FileCount uint64 `mapstructure:"file_count"`
	FileSize  uint64 `mapstructure:"file_size"`
	KeepDays  uint64 `mapstructure:"keep_days"`
	Console   bool   `mapstructure:"console"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type RateLimitConfig struct {
	WindowMs int `mapstructure:"window_ms"`
}

type IngestConfig struct {
	// Concurrency caps in-flight edge updates per ingest call; 0 means unlimited.
	Concurrency int `mapstructure:"concurrency"`
}

type StatsConfig struct {
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
	ReportCron      string `mapstructure:"report_cron"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 0)
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "")
	v.SetDefault("database.max_open_conns", 16)
	v.SetDefault("database.max_idle_conns", 4)
	v.SetDefault("database.conn_max_lifetime_seconds", 300)
	v.SetDefault("log_config.file", "")
	v.SetDefault("log_config.level", "info")
	v.SetDefault("log_config.file_count", 5)
	v.SetDefault("log_config.file_size", 100)
	v.SetDefault("log_config.keep_days", 7)
	v.SetDefault("log_config.console", true)
	v.SetDefault("cors.allow_origins", []string{})
	v.SetDefault("rate_limit.window_ms", 0)
	v.SetDefault("ingest.concurrency", 0)
	v.SetDefault("stats.cache_ttl_seconds", 0)
	v.SetDefault("stats.report_cron", "")
}

// Load reads the config file at path (json, yaml or toml, picked by
// extension). Every key can be overridden by MCHAIN_<SECTION>_<KEY>.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.LogConfig.Level == "" {
		c.LogConfig.Level = "info"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.DSN == "" && (c.Database.Host == "" || c.Database.DBName == "") {
			return fmt.Errorf("database.dsn or database.host/dbname are required for postgres")
		}
	case DriverSQLite:
		if c.Database.Path == "" && c.Database.DSN == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite")
	}
	if c.RateLimit.WindowMs < 0 {
		return fmt.Errorf("rate_limit.window_ms must not be negative")
	}
	if c.Ingest.Concurrency < 0 {
		return fmt.Errorf("ingest.concurrency must not be negative")
	}
	if c.Stats.CacheTTLSeconds < 0 {
		return fmt.Errorf("stats.cache_ttl_seconds must not be negative")
	}
	return nil
}
