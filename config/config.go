package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/bellapacxx/bingo-rooms/models"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
}

type AppConfig struct {
	LogLevel     string
	LogEncoding  string
	NodeID       string
	DefaultRules models.Rules
}

type HTTPConfig struct {
	Port            string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

type StoreConfig struct {
	Driver string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	// TTL expires idle rooms. Zero keeps them forever.
	TTL time.Duration
}

// NATSConfig enables multi-node fan-out when URL is set.
type NATSConfig struct {
	URL           string
	MaxReconnects int
	ReconnectWait time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "4000")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_encoding", "json")
	v.SetDefault("node_id", "")
	v.SetDefault("default_rules", "classic")
	v.SetDefault("cors_origins", "http://localhost:3000")
	v.SetDefault("shutdown_timeout", "10s")

	v.SetDefault("store_driver", DriverMemory)
	v.SetDefault("database_url", "")
	v.SetDefault("db_max_open_conns", 20)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("db_conn_max_lifetime", "30m")

	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_prefix", "bingo")
	v.SetDefault("redis_ttl", "0s")

	v.SetDefault("nats_url", "")
	v.SetDefault("nats_max_reconnects", 60)
	v.SetDefault("nats_reconnect_wait", "2s")
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// a missing .env is fine, the environment may carry everything
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	rules, err := models.RulesByName(v.GetString("default_rules"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			LogLevel:     v.GetString("log_level"),
			LogEncoding:  v.GetString("log_encoding"),
			NodeID:       v.GetString("node_id"),
			DefaultRules: rules,
		},
		HTTP: HTTPConfig{
			Port:            v.GetString("port"),
			CORSOrigins:     splitList(v.GetString("cors_origins")),
			ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("store_driver"))),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("database_url"),
			MaxOpenConns:    v.GetInt("db_max_open_conns"),
			MaxIdleConns:    v.GetInt("db_max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("db_conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
			Prefix:   v.GetString("redis_prefix"),
			TTL:      v.GetDuration("redis_ttl"),
		},
		NATS: NATSConfig{
			URL:           v.GetString("nats_url"),
			MaxReconnects: v.GetInt("nats_max_reconnects"),
			ReconnectWait: v.GetDuration("nats_reconnect_wait"),
		},
	}
	return cfg, cfg.Validate()
}

// Validate checks settings that would only fail later at connect time.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverRedis:
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for the postgres store", models.ErrInvalidConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown STORE_DRIVER %q", models.ErrInvalidConfiguration, c.Store.Driver)
	}
	if c.HTTP.Port == "" {
		return fmt.Errorf("%w: PORT is empty", models.ErrInvalidConfiguration)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
