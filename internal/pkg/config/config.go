package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	StorageBackend string `env:"STORAGE_BACKEND, default=memory"`

	Auth  AuthConfig
	Audit AuditConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	// TokenSecret switches session tokens to signed HS256 JWTs. Empty keeps the
	// insecure mock format.
	TokenSecret        string        `env:"TOKEN_SECRET"`
	SessionTTL         time.Duration `env:"SESSION_TTL,         default=24h"`
	LoginDelay         time.Duration `env:"LOGIN_DELAY,         default=1s"`
	CredentialsDurable bool          `env:"CREDENTIALS_DURABLE, default=false"`
}

type AuditConfig struct {
	Workers  int `env:"AUDIT_WORKERS,  default=4"`
	Capacity int `env:"AUDIT_CAPACITY, default=500"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=admin_console"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from the process environment. It panics on a
// malformed or unsupported value.
func Load() *Config {
	cfg, err := LoadFrom(envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration from l.
func LoadFrom(l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, err
	}

	switch cfg.StorageBackend {
	case BackendMemory, BackendRedis, BackendMongo:
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND %q: want memory, redis or mongo", cfg.StorageBackend)
	}
	if cfg.Auth.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.Auth.SessionTTL)
	}
	if cfg.Auth.LoginDelay < 0 {
		return nil, fmt.Errorf("LOGIN_DELAY must not be negative, got %s", cfg.Auth.LoginDelay)
	}
	return &cfg, nil
}
