package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DefaultLobby  string
	RoundDuration time.Duration
}

func Default() Config {
	return Config{
		Port:          "8000",
		DefaultLobby:  "main",
		RoundDuration: 120 * time.Second,
	}
}

// Load reads .env when there is one, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using process environment")
	} else {
		log.Println("Successfully loaded environment variables")
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv("PORT"); v != "" {
		if _, err := strconv.ParseUint(v, 10, 16); err != nil {
			return Config{}, fmt.Errorf("PORT %q: %w", v, err)
		}
		cfg.Port = v
	}

	if v := os.Getenv("DEFAULT_LOBBY"); v != "" {
		cfg.DefaultLobby = v
	}

	if v := os.Getenv("ROUND_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("ROUND_SECONDS %q: %w", v, err)
		}
		if secs <= 0 {
			return Config{}, fmt.Errorf("ROUND_SECONDS must be positive, got %d", secs)
		}
		cfg.RoundDuration = time.Duration(secs) * time.Second
	}

	return cfg, nil
}
