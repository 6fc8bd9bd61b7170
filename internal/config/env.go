package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/subosito/gotenv"
)

type Env struct {
	AppAddr   string
	GinMode   string
	DBDSN     string
	JWTSecret string
	CacheTTL  time.Duration
}

func LoadEnv() Env {
	_ = gotenv.Load()

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
			envOr("DB_USER", "root"),
			os.Getenv("DB_PASS"),
			envOr("DB_HOST", "127.0.0.1:3306"),
			envOr("DB_NAME", "tour_backoffice"),
		)
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		secret = "change-me-in-production"
	}

	ttl := 60 * time.Second
	if v := strings.TrimSpace(os.Getenv("CACHE_TTL_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			ttl = time.Duration(n) * time.Second
		}
	}

	return Env{
		AppAddr:   appAddr,
		GinMode:   strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBDSN:     dsn,
		JWTSecret: secret,
		CacheTTL:  ttl,
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
