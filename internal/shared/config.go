package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	RedisAddr string
	RedisDB   int
	RedisPass string

	// Upstream marketplace API.
	APIBase    string
	APITimeout time.Duration
	APIRateRPS int

	CacheTTL     time.Duration
	SessionTTL   time.Duration
	PollInterval time.Duration

	// Provider -> smallest amount accepted, in KES.
	PaymentMinimums map[string]float64

	// Cache warmer.
	WarmWorkers int
	WarmPages   int
}

func Load() Config {
	// Local development keeps settings in .env; absence is fine.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisDB:      atoi("REDIS_DB", 0),
		RedisPass:    env("REDIS_PASSWORD", ""),
		APIBase:      env("MARKET_API_BASE", "http://localhost:5000/api/v1"),
		APITimeout:   time.Duration(atoi("MARKET_API_TIMEOUT_SECONDS", 15)) * time.Second,
		APIRateRPS:   atoi("MARKET_API_RPS", 20),
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		SessionTTL:   time.Duration(atoi("SESSION_TTL_SECONDS", 3600)) * time.Second,
		PollInterval: time.Duration(atoi("PAYMENT_POLL_SECONDS", 3)) * time.Second,
		PaymentMinimums: map[string]float64{
			"mpesa":  float64(atoi("MIN_AMOUNT_MPESA", 1000)),
			"airtel": float64(atoi("MIN_AMOUNT_AIRTEL", 500)),
			"card":   float64(atoi("MIN_AMOUNT_CARD", 100)),
		},
		WarmWorkers: atoi("WARM_WORKERS", 8),
		WarmPages:   atoi("WARM_PAGES", 5),
	}
	if c.AppEnv == "prod" && c.APIBase == "http://localhost:5000/api/v1" {
		log.Warn().Msg("MARKET_API_BASE is not set; using the localhost default")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
