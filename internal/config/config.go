package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Port              string
	DatabaseURL       string
	RedisURL          string
	VAPIDPublicKey    string
	VAPIDPrivateKey   string
	VAPIDSubject      string
	SiteURL           string
	DispatchBatch     int
	PollInterval      time.Duration
	PollEnabled       bool
	TriggerRatePerSec int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	port := getEnv("PORT", "8080")
	dbURL := getEnv("DATABASE_URL", "")
	redisURL := getEnv("REDIS_URL", "")
	vapidPublic := getEnv("VAPID_PUBLIC_KEY", "")
	vapidPrivate := getEnv("VAPID_PRIVATE_KEY", "")
	vapidSubject := getEnv("VAPID_SUBJECT", "")
	siteURL := getEnv("SITE_URL", "http://localhost:"+port)
	batch := getEnvInt("DISPATCH_BATCH_SIZE", 50)
	pollSeconds := getEnvInt("POLL_INTERVAL_SECONDS", 120)
	pollEnabled := getEnvBool("POLL_ENABLED", true)
	triggerRate := getEnvInt("TRIGGER_RATE_PER_SECOND", 5)

	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}
	if vapidPublic == "" || vapidPrivate == "" {
		return nil, fmt.Errorf("VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY are required")
	}
	if vapidSubject == "" {
		return nil, fmt.Errorf("VAPID_SUBJECT is required")
	}

	return &Config{
		Port:              port,
		DatabaseURL:       dbURL,
		RedisURL:          redisURL,
		VAPIDPublicKey:    vapidPublic,
		VAPIDPrivateKey:   vapidPrivate,
		VAPIDSubject:      vapidSubject,
		SiteURL:           siteURL,
		DispatchBatch:     batch,
		PollInterval:      time.Duration(pollSeconds) * time.Second,
		PollEnabled:       pollEnabled,
		TriggerRatePerSec: triggerRate,
	}, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
