package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v, want nil", err)
		}
		if cfg.Server.Host != "0.0.0.0" {
			t.Errorf("Server.Host = %s, want 0.0.0.0", cfg.Server.Host)
		}
		if cfg.Server.Port != 50061 {
			t.Errorf("Server.Port = %d, want 50061", cfg.Server.Port)
		}
		if cfg.Server.RequestTimeout != 30*time.Second {
			t.Errorf("Server.RequestTimeout = %v, want 30s", cfg.Server.RequestTimeout)
		}
		if cfg.Server.MaxRecords != 10000 {
			t.Errorf("Server.MaxRecords = %d, want 10000", cfg.Server.MaxRecords)
		}
		if cfg.Schema.File != "" || cfg.Database.URL != "" {
			t.Errorf("Schema.File, Database.URL = %q, %q, want empty", cfg.Schema.File, cfg.Database.URL)
		}
		if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
			t.Errorf("Log = %+v, want info/json", cfg.Log)
		}
		if cfg.Server.Addr() != "0.0.0.0:50061" {
			t.Errorf("Addr() = %s, want 0.0.0.0:50061", cfg.Server.Addr())
		}
	})

	t.Run("environment override", func(t *testing.T) {
		t.Setenv("RF_SERVER_PORT", "9999")
		t.Setenv("RF_SERVER_HOST", "127.0.0.1")
		t.Setenv("RF_LOG_LEVEL", "DEBUG")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v, want nil", err)
		}
		if cfg.Server.Port != 9999 {
			t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
		}
		if cfg.Server.Host != "127.0.0.1" {
			t.Errorf("Server.Host = %s, want 127.0.0.1", cfg.Server.Host)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
		}
	})

	t.Run("config file", func(t *testing.T) {
		path := writeConfig(t, `server:
  port: 7000
  max_records: 50
schema:
  file: /etc/recordfilter/schema.yaml
database:
  url: sqlite:///var/lib/recordfilter/templates.db
log:
  format: text
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v, want nil", err)
		}
		if cfg.Server.Port != 7000 || cfg.Server.MaxRecords != 50 {
			t.Errorf("Server = %+v, want port 7000, max_records 50", cfg.Server)
		}
		if cfg.Schema.File != "/etc/recordfilter/schema.yaml" {
			t.Errorf("Schema.File = %s", cfg.Schema.File)
		}
		if cfg.Database.URL != "sqlite:///var/lib/recordfilter/templates.db" {
			t.Errorf("Database.URL = %s", cfg.Database.URL)
		}
		if cfg.Log.Format != "text" {
			t.Errorf("Log.Format = %s, want text", cfg.Log.Format)
		}
	})

	t.Run("environment overrides config file", func(t *testing.T) {
		t.Setenv("RF_SERVER_PORT", "8080")
		cfg, err := LoadConfig(writeConfig(t, "server:\n  port: 9090\n"))
		if err != nil {
			t.Fatalf("LoadConfig() error = %v, want nil", err)
		}
		if cfg.Server.Port != 8080 {
			t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("LoadConfig() error = nil, want error")
		}
	})
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{"port above range", "RF_SERVER_PORT", "70000"},
		{"port zero", "RF_SERVER_PORT", "0"},
		{"negative timeout", "RF_SERVER_REQUEST_TIMEOUT", "-1s"},
		{"zero max records", "RF_SERVER_MAX_RECORDS", "0"},
		{"unknown log level", "RF_LOG_LEVEL", "verbose"},
		{"unknown log format", "RF_LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.val)
			if _, err := LoadConfig(""); err == nil {
				t.Errorf("LoadConfig() with %s=%s error = nil, want error", tt.env, tt.val)
			}
		})
	}
}

func TestLoadConfig_RejectsTokenInFile(t *testing.T) {
	path := writeConfig(t, "remote:\n  token: should_be_rejected\n")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "RF_REMOTE_TOKEN") {
		t.Errorf("LoadConfig() error = %v, want mention of RF_REMOTE_TOKEN", err)
	}
}

func TestLoadConfig_TokenFromEnvironmentAllowed(t *testing.T) {
	t.Setenv("RF_REMOTE_TOKEN", "secret")
	if _, err := LoadConfig(writeConfig(t, "server:\n  port: 9090\n")); err != nil {
		t.Errorf("LoadConfig() error = %v, want nil", err)
	}
}
