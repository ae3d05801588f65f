package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	ServerPort string

	// Duel tunables.
	RoundLimit   time.Duration
	BreakPause   time.Duration
	SessionLimit time.Duration
	WinThreshold int

	// Matchmaking tunables.
	RatingWindowBase   int
	RatingWindowGrowth int
	QueueSweepInterval time.Duration

	// Puzzle provider.
	CuratedProbability float64
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "hectoclash"),
		JWTSecret:  getEnv("JWT_SECRET", "super-secret-key-change-me"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		RoundLimit:   getEnvSeconds("ROUND_TIME_LIMIT", 180),
		BreakPause:   getEnvSeconds("ROUND_BREAK_PAUSE", 3),
		SessionLimit: getEnvSeconds("SESSION_TIME_LIMIT", 600),
		WinThreshold: getEnvInt("ROUNDS_TO_WIN", 2),

		RatingWindowBase:   getEnvInt("RATING_WINDOW_BASE", 150),
		RatingWindowGrowth: getEnvInt("RATING_WINDOW_GROWTH", 25),
		QueueSweepInterval: getEnvSeconds("QUEUE_SWEEP_INTERVAL", 1),

		CuratedProbability: getEnvFloat("CURATED_PROBABILITY", 0.7),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil && f >= 0 && f <= 1 {
			return f
		}
	}
	return fallback
}
