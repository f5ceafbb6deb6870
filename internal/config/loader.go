package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies WALLETD_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known WALLETD_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// --- Server ---
	setInt(&cfg.Server.Port, "WALLETD_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "WALLETD_SERVER_CORS_ORIGINS")

	// --- CoinCap ---
	setStr(&cfg.CoinCap.BaseURL, "WALLETD_COINCAP_BASE_URL")
	setStr(&cfg.CoinCap.APIKey, "WALLETD_COINCAP_API_KEY")
	setDuration(&cfg.CoinCap.RequestTimeout, "WALLETD_COINCAP_REQUEST_TIMEOUT")

	// --- Postgres ---
	setStr(&cfg.Postgres.DSN, "WALLETD_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "WALLETD_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "WALLETD_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "WALLETD_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "WALLETD_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "WALLETD_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "WALLETD_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "WALLETD_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "WALLETD_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "WALLETD_POSTGRES_RUN_MIGRATIONS")

	// --- Redis ---
	setStr(&cfg.Redis.Addr, "WALLETD_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "WALLETD_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "WALLETD_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "WALLETD_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "WALLETD_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "WALLETD_REDIS_TLS_ENABLED")

	// --- Sync ---
	setDuration(&cfg.Sync.Interval, "WALLETD_SYNC_INTERVAL")
	setInt(&cfg.Sync.Workers, "WALLETD_SYNC_WORKERS")
	setDuration(&cfg.Sync.FetchTimeout, "WALLETD_SYNC_FETCH_TIMEOUT")
	setDuration(&cfg.Sync.DrainGrace, "WALLETD_SYNC_DRAIN_GRACE")

	// --- Top-level ---
	setStr(&cfg.LogLevel, "WALLETD_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
