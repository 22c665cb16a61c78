package config

import (
	"net/url"
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("POSTGRES_DB", "safetweet")
	t.Setenv("POSTGRES_USER", "safetweet")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("SESSION_SECRET", strings.Repeat("k", 32))
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.DBHost != "db" || cfg.DBPort != "5432" || cfg.HTTPPort != "8080" {
		t.Fatalf("unexpected connection defaults: %+v", cfg)
	}
	if cfg.MaxPostLength != 280 || cfg.MaxCommentLength != 500 {
		t.Fatalf("unexpected length limits: post=%d comment=%d", cfg.MaxPostLength, cfg.MaxCommentLength)
	}
	if cfg.FeedPageSize != 20 || cfg.FeedCommentPreview != 3 {
		t.Fatalf("unexpected feed defaults: page=%d preview=%d", cfg.FeedPageSize, cfg.FeedCommentPreview)
	}
	if cfg.MaintenanceInterval != time.Hour {
		t.Fatalf("MaintenanceInterval = %v, want 1h", cfg.MaintenanceInterval)
	}
	if !cfg.LinkPreviews {
		t.Fatalf("link previews should default to enabled")
	}

	want := "postgres://safetweet:secret@db:5432/safetweet?sslmode=disable"
	if got := cfg.DatabaseURL(); got != want {
		t.Fatalf("DatabaseURL() = %q, want %q", got, want)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("FEED_PAGE_SIZE", "500")
	t.Setenv("LINK_PREVIEWS", "false")
	t.Setenv("NOTIFICATION_RETENTION", "48h")
	t.Setenv("WS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("FEED_COMMENT_PREVIEW", "0")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.FeedPageSize != maxFeedPageSize {
		t.Fatalf("FeedPageSize = %d, want capped at %d", cfg.FeedPageSize, maxFeedPageSize)
	}
	if cfg.LinkPreviews {
		t.Fatalf("LINK_PREVIEWS=false was ignored")
	}
	if cfg.NotificationRetention != 48*time.Hour {
		t.Fatalf("NotificationRetention = %v", cfg.NotificationRetention)
	}
	if len(cfg.WSAllowedOrigins) != 2 || cfg.WSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("WSAllowedOrigins = %v", cfg.WSAllowedOrigins)
	}
	if cfg.FeedCommentPreview != 0 {
		t.Fatalf("FEED_COMMENT_PREVIEW=0 gave %d", cfg.FeedCommentPreview)
	}
}

func TestDatabaseURLEscapesCredentials(t *testing.T) {
	cfg := &AppConfig{
		DBUser:     "app user",
		DBPassword: "p@ss/w#rd:?",
		DBHost:     "db.internal",
		DBPort:     "6543",
		DBName:     "safetweet",
		DBSSLMode:  "require",
	}

	u, err := url.Parse(cfg.DatabaseURL())
	if err != nil {
		t.Fatalf("DatabaseURL() %q does not parse: %v", cfg.DatabaseURL(), err)
	}
	pw, _ := u.User.Password()
	if u.User.Username() != cfg.DBUser || pw != cfg.DBPassword {
		t.Fatalf("credentials = %q:%q, want %q:%q", u.User.Username(), pw, cfg.DBUser, cfg.DBPassword)
	}
	if u.Host != "db.internal:6543" || u.Path != "/safetweet" || u.Query().Get("sslmode") != "require" {
		t.Fatalf("unexpected URL parts: %+v", u)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"short secret", map[string]string{"SESSION_SECRET": "short"}, "SESSION_SECRET"},
		{"bad int", map[string]string{"MAX_POST_LENGTH": "abc"}, "MAX_POST_LENGTH"},
		{"negative int", map[string]string{"FEED_PAGE_SIZE": "-1"}, "FEED_PAGE_SIZE"},
		{"zero page size", map[string]string{"FEED_PAGE_SIZE": "0"}, "FEED_PAGE_SIZE"},
		{"negative preview", map[string]string{"FEED_COMMENT_PREVIEW": "-1"}, "FEED_COMMENT_PREVIEW"},
		{"bad bool", map[string]string{"SECURE_COOKIES": "maybe"}, "SECURE_COOKIES"},
		{"bad duration", map[string]string{"MAINTENANCE_INTERVAL": "soon"}, "MAINTENANCE_INTERVAL"},
		{"missing db", map[string]string{"POSTGRES_DB": ""}, "POSTGRES_DB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			if err == nil {
				t.Fatalf("LoadConfig() succeeded, want error mentioning %s", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %s", err, tt.want)
			}
		})
	}
}
