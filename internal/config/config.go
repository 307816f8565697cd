package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	ListenAddr string
	AdminAddr  string

	AllowedOrigins []string

	ClockSeconds int
	RoomCodeLen  int

	RedisURL    string
	DatabaseURL string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ListenAddr:   ":8080",
		ClockSeconds: 300,
		RoomCodeLen:  5,
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	cfg.AdminAddr = strings.TrimSpace(os.Getenv("ADMIN_ADDR"))

	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, s)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("CLOCK_SECONDS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, errors.New("CLOCK_SECONDS must be a positive integer")
		}
		cfg.ClockSeconds = n
	}
	if v := strings.TrimSpace(os.Getenv("ROOM_CODE_LEN")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 4 || n > 12 {
			return nil, errors.New("ROOM_CODE_LEN must be between 4 and 12")
		}
		cfg.RoomCodeLen = n
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	return cfg, nil
}
