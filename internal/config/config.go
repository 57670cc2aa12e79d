package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPAddr string

	CatalogBaseURL string
	CatalogTimeout time.Duration

	// CartBackend selects the durable cart slot: memory, redis or postgres.
	CartBackend string
	CartTTL     time.Duration
	RedisAddr   string
	DatabaseURL string

	JWTSecret string
	TokenTTL  time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	RateLimitRPS   float64
	RateLimitBurst int
}

var ErrUnknownCartBackend = errors.New("unknown cart backend")

// Load reads .env (when present), an optional storefront.yaml and
// STOREFRONT_* environment variables, in increasing order of precedence.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("storefront")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("storefront")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("catalog.base_url", "https://fakestoreapi.com")
	v.SetDefault("catalog.timeout", 5*time.Second)
	v.SetDefault("cart.backend", "memory")
	v.SetDefault("cart.ttl", 0)
	v.SetDefault("redis.addr", "storefront-redis:6379")
	v.SetDefault("database.url", "")
	v.SetDefault("auth.jwt_secret", "super-secret-key")
	v.SetDefault("auth.token_ttl", 30*24*time.Hour)
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic", "cart.events")
	v.SetDefault("ratelimit.rps", 5.0)
	v.SetDefault("ratelimit.burst", 10)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppEnv:         v.GetString("app.env"),
		LogLevel:       v.GetString("log.level"),
		HTTPAddr:       v.GetString("http.addr"),
		CatalogBaseURL: strings.TrimRight(v.GetString("catalog.base_url"), "/"),
		CatalogTimeout: v.GetDuration("catalog.timeout"),
		CartBackend:    strings.ToLower(v.GetString("cart.backend")),
		CartTTL:        v.GetDuration("cart.ttl"),
		RedisAddr:      v.GetString("redis.addr"),
		DatabaseURL:    v.GetString("database.url"),
		JWTSecret:      v.GetString("auth.jwt_secret"),
		TokenTTL:       v.GetDuration("auth.token_ttl"),
		KafkaBrokers:   splitList(v.GetString("kafka.brokers")),
		KafkaTopic:     v.GetString("kafka.topic"),
		RateLimitRPS:   v.GetFloat64("ratelimit.rps"),
		RateLimitBurst: v.GetInt("ratelimit.burst"),
	}

	switch cfg.CartBackend {
	case "memory", "redis":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("cart backend postgres requires STOREFRONT_DATABASE_URL")
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownCartBackend, cfg.CartBackend)
	}

	return cfg, nil
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
