package config

import "os"

// Config menampung seluruh konfigurasi agent table-side dari environment.
type Config struct {
	BackendURL    string
	RedeemPath    string
	RealtimeURL   string
	NatsURL       string
	NatsPrefix    string
	SessionSecret string
	StoreDriver   string
	StorePath     string
	RedisAddr     string
	RedisPassword string
}

func Load() Config {
	return Config{
		BackendURL:    getEnv("BACKEND_URL", "http://localhost:8080"),
		RedeemPath:    getEnv("REDEEM_PATH", "/session/redeem"),
		RealtimeURL:   getEnv("REALTIME_URL", "ws://localhost:8080/ws/customer"),
		NatsURL:       getEnv("NATS_URL", ""),
		NatsPrefix:    getEnv("NATS_PREFIX", "tableside.events"),
		SessionSecret: getEnv("SESSION_SECRET", "TestSecretKeyAUTH1945"),
		StoreDriver:   getEnv("STORE_DRIVER", "sqlite"),
		StorePath:     getEnv("STORE_PATH", "tableside.db"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
