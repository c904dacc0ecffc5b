package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// PasswordPepper keys the password digest. Changing it invalidates every
	// stored credential, so treat it like a secret with the same lifetime as
	// the user database.
	PasswordPepper string        `env:"PASSWORD_PEPPER"`
	TokenTTL       time.Duration `env:"TOKEN_TTL, default=24h"`

	// MaxLoginFailures is the per-username daily failure budget; once
	// reached, logins are denied until the next UTC midnight.
	MaxLoginFailures int64 `env:"MAX_LOGIN_FAILURES, default=5"`

	Admin AdminConfig
	QR    QRConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// AdminConfig bootstraps the admin account at startup. Leaving either value
// empty disables bootstrapping.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME"`
	Password string `env:"ADMIN_PASSWORD"`
}

type QRConfig struct {
	// Size is the pixel edge length of generated images.
	Size     int           `env:"QR_SIZE,      default=256"`
	CacheTTL time.Duration `env:"QR_CACHE_TTL, default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=qrvault"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
