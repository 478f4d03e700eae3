package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                      string
	DBPath                    string
	LogLevel                  string
	RoundDurationSeconds      float64
	SpeedrunQuestionTarget    int
	TickIntervalMS            int
	CheckpointIntervalSeconds int
	JanitorIntervalMinutes    int
	IdleSessionMinutes        int
	StaleSessionHours         int
	JanitorQueueSize          int
	LeaderboardLimit          int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                      envOr("ADDR", ":8080"),
		DBPath:                    envOr("DB_PATH", "file:botanybattle.db"),
		LogLevel:                  envOr("LOG_LEVEL", "INFO"),
		RoundDurationSeconds:      envFloatOr("ROUND_DURATION_SECONDS", 60),
		SpeedrunQuestionTarget:    envIntOr("SPEEDRUN_QUESTION_TARGET", 25),
		TickIntervalMS:            envIntOr("TICK_INTERVAL_MS", 250),
		CheckpointIntervalSeconds: envIntOr("CHECKPOINT_INTERVAL_SECONDS", 10),
		JanitorIntervalMinutes:    envIntOr("JANITOR_INTERVAL_MINUTES", 10),
		IdleSessionMinutes:        envIntOr("IDLE_SESSION_MINUTES", 30),
		StaleSessionHours:         envIntOr("STALE_SESSION_HOURS", 24),
		JanitorQueueSize:          envIntOr("JANITOR_QUEUE_SIZE", 16),
		LeaderboardLimit:          envIntOr("LEADERBOARD_LIMIT", 25),
	}
}

// Validate reports every configuration problem at once so a bad deploy
// fails with the full picture instead of one error per restart.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.RoundDurationSeconds <= 0 {
		problems = append(problems, "ROUND_DURATION_SECONDS must be positive")
	}
	if c.SpeedrunQuestionTarget <= 0 {
		problems = append(problems, "SPEEDRUN_QUESTION_TARGET must be positive")
	}
	if c.TickIntervalMS <= 0 {
		problems = append(problems, "TICK_INTERVAL_MS must be positive")
	}
	if c.CheckpointIntervalSeconds <= 0 {
		problems = append(problems, "CHECKPOINT_INTERVAL_SECONDS must be positive")
	}
	if c.JanitorIntervalMinutes <= 0 {
		problems = append(problems, "JANITOR_INTERVAL_MINUTES must be positive")
	}
	if c.IdleSessionMinutes <= 0 {
		problems = append(problems, "IDLE_SESSION_MINUTES must be positive")
	}
	if c.StaleSessionHours <= 0 {
		problems = append(problems, "STALE_SESSION_HOURS must be positive")
	}
	if c.JanitorQueueSize <= 0 {
		problems = append(problems, "JANITOR_QUEUE_SIZE must be positive")
	}
	if c.LeaderboardLimit <= 0 {
		problems = append(problems, "LEADERBOARD_LIMIT must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c Config) RoundDuration() time.Duration {
	return time.Duration(c.RoundDurationSeconds * float64(time.Second))
}

func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

func (c Config) CheckpointInterval() time.Duration {
	return time.Duration(c.CheckpointIntervalSeconds) * time.Second
}

func (c Config) JanitorInterval() time.Duration {
	return time.Duration(c.JanitorIntervalMinutes) * time.Minute
}

func (c Config) IdleSessionAge() time.Duration {
	return time.Duration(c.IdleSessionMinutes) * time.Minute
}

func (c Config) StaleSessionAge() time.Duration {
	return time.Duration(c.StaleSessionHours) * time.Hour
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}
