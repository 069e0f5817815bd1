package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string `env:"PORT,           default=8080"`
	Env           string `env:"ENV,            default=development"`
	App           string `env:"APP,            default=consumer"`
	ContextSecret string `env:"CONTEXT_SECRET"`
	LogLevel      string `env:"LOG_LEVEL,      default=info"`

	// Upstream is the application the gateway fronts. Empty means serve the
	// built-in JSON shell instead of proxying.
	Upstream string `env:"UPSTREAM_URL"`

	Store   StoreConfig
	Redis   RedisConfig
	Mongo   MongoConfig
	Profile ProfileConfig
	Toast   ToastConfig
}

// StoreConfig selects the credential store backend. "memory" gives per-load
// sessions only and is the degradation target when redis/mongo are down.
type StoreConfig struct {
	Backend string `env:"STORE_BACKEND, default=redis"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=moovefit_sessions"`
}

// ProfileConfig points at the remote platform API used to verify tokens and
// to request login links.
type ProfileConfig struct {
	BaseURL string        `env:"PROFILE_API_URL, default=http://localhost:4000"`
	Timeout time.Duration `env:"PROFILE_API_TIMEOUT, default=5s"`
}

type ToastConfig struct {
	TTL time.Duration `env:"TOAST_TTL, default=4s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
