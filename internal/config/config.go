// SPDX-License-Identifier: AGPL-3.0-only
package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/safetweet/safetweet/sql/schema"

	_ "github.com/lib/pq"
)

type AppConfig struct {
	DBName     string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBSSLMode  string

	HTTPPort      string
	SessionSecret []byte
	SecureCookies bool

	MaxMediaBytes      int
	MaxPostLength      int
	MaxCommentLength   int
	FeedPageSize       int
	FeedCommentPreview int

	MaintenanceInterval   time.Duration
	NotificationRetention time.Duration

	LinkPreviews       bool
	LinkPreviewTimeout time.Duration

	WSAllowedOrigins []string
}

const maxFeedPageSize = 100

// LoadConfig reads the environment, after applying an optional .env file.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &AppConfig{
		DBName:     os.Getenv("POSTGRES_DB"),
		DBUser:     os.Getenv("POSTGRES_USER"),
		DBPassword: os.Getenv("POSTGRES_PASSWORD"),
		DBHost:     getEnv("POSTGRES_HOST", "db"),
		DBPort:     getEnv("POSTGRES_PORT", "5432"),
		DBSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		HTTPPort:   getEnv("HTTP_PORT", "8080"),
	}

	if cfg.DBName == "" || cfg.DBUser == "" || cfg.DBPassword == "" {
		return nil, fmt.Errorf("POSTGRES_DB, POSTGRES_USER and POSTGRES_PASSWORD must be set")
	}

	secret := os.Getenv("SESSION_SECRET")
	if len(secret) < 32 {
		return nil, fmt.Errorf("SESSION_SECRET must be at least 32 bytes long")
	}
	cfg.SessionSecret = []byte(secret)

	var err error
	if cfg.SecureCookies, err = getEnvBool("SECURE_COOKIES", false); err != nil {
		return nil, err
	}
	if cfg.MaxMediaBytes, err = getEnvInt("MAX_MEDIA_BYTES", 10<<20); err != nil {
		return nil, err
	}
	if cfg.MaxPostLength, err = getEnvInt("MAX_POST_LENGTH", 280); err != nil {
		return nil, err
	}
	if cfg.MaxCommentLength, err = getEnvInt("MAX_COMMENT_LENGTH", 500); err != nil {
		return nil, err
	}
	if cfg.FeedPageSize, err = getEnvInt("FEED_PAGE_SIZE", 20); err != nil {
		return nil, err
	}
	if cfg.FeedPageSize > maxFeedPageSize {
		cfg.FeedPageSize = maxFeedPageSize
	}
	// 0 turns comment previews off.
	if cfg.FeedCommentPreview, err = getEnvCount("FEED_COMMENT_PREVIEW", 3); err != nil {
		return nil, err
	}
	if cfg.MaintenanceInterval, err = getEnvDuration("MAINTENANCE_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.NotificationRetention, err = getEnvDuration("NOTIFICATION_RETENTION", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.LinkPreviews, err = getEnvBool("LINK_PREVIEWS", true); err != nil {
		return nil, err
	}
	if cfg.LinkPreviewTimeout, err = getEnvDuration("LINK_PREVIEW_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}

	for _, origin := range strings.Split(os.Getenv("WS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.WSAllowedOrigins = append(cfg.WSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

func (cfg *AppConfig) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:     net.JoinHostPort(cfg.DBHost, cfg.DBPort),
		Path:     "/" + cfg.DBName,
		RawQuery: url.Values{"sslmode": {cfg.DBSSLMode}}.Encode(),
	}
	return u.String()
}

// OpenDatabase connects to Postgres and applies the embedded migrations.
func OpenDatabase(cfg *AppConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the DB: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping the DB: %w", err)
	}

	goose.SetBaseFS(schema.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to get DB version: %w", err)
	}
	log.Printf("Migrations applied successfully. Current DB version: %d", version)

	return db, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func getEnvCount(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be zero or a positive integer, got %q", key, v)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}
