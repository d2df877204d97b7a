package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	// AppEnv is the deployment mode. Only "development" relaxes verification.
	AppEnv string `env:"APP_ENV" envDefault:"production"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Telegram struct {
		BotToken string   `env:"BOT_TOKEN,required,notEmpty"`
		AdminIDs []string `env:"ADMIN_IDS" envSeparator:","`

		// Seconds; 0 disables the auth_date freshness check.
		InitDataTTL int `env:"INIT_DATA_TTL" envDefault:"86400"`
		// Seconds; 0 disables memoization of verified init data.
		VerifyCacheTTL int `env:"VERIFY_CACHE_TTL" envDefault:"60"`
	}
}

// Load reads .env (if any) and the process environment. A missing bot token
// is an error: the service must not start without it.
func Load() (*Config, error) {
	// .env is optional; in production variables come from the environment.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (c *Config) InitDataMaxAge() time.Duration {
	return time.Duration(c.Telegram.InitDataTTL) * time.Second
}

func (c *Config) VerifyCacheTTL() time.Duration {
	return time.Duration(c.Telegram.VerifyCacheTTL) * time.Second
}

// AdminIDs parses ADMIN_IDS, skipping malformed entries.
func (c *Config) AdminIDs() []int64 {
	ids := make([]int64, 0, len(c.Telegram.AdminIDs))
	for _, s := range c.Telegram.AdminIDs {
		if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
