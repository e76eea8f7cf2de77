package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_DRIVER", "JWT_TTL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "5000" {
		t.Errorf("Expected default port 5000, got %s", cfg.Port)
	}
	if cfg.StoreDriver != "postgres" {
		t.Errorf("Expected default store driver postgres, got %s", cfg.StoreDriver)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("Expected default token ttl 24h, got %v", cfg.TokenTTL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("MAIL_SEND_ENABLED", "true")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if cfg.StoreDriver != "memory" {
		t.Errorf("Expected store driver memory, got %s", cfg.StoreDriver)
	}
	if cfg.TokenTTL != 90*time.Minute {
		t.Errorf("Expected token ttl 90m, got %v", cfg.TokenTTL)
	}
	if !cfg.MailSendEnabled {
		t.Error("Expected mail sending to be enabled")
	}
	if cfg.DBMaxConns != 10 {
		t.Errorf("Expected invalid int to fall back to 10, got %d", cfg.DBMaxConns)
	}
}

func TestListHelpers(t *testing.T) {
	cfg := &Config{
		CORSAllowedOrigins: " http://a.test , ,http://b.test",
		ElasticsearchAddrs: "",
		DBUser:             "u",
		DBPassword:         "p",
		DBHost:             "h",
		DBPort:             "1",
		DBName:             "d",
		DBSSLMode:          "disable",
	}
	origins := cfg.CORSOrigins()
	if len(origins) != 2 || origins[0] != "http://a.test" || origins[1] != "http://b.test" {
		t.Errorf("Unexpected origins: %v", origins)
	}
	if len(cfg.ESAddrs()) != 0 {
		t.Errorf("Expected no ES addresses, got %v", cfg.ESAddrs())
	}
	if dsn := cfg.PostgresDSN(); dsn != "postgres://u:p@h:1/d?sslmode=disable" {
		t.Errorf("Unexpected DSN %s", dsn)
	}
}
