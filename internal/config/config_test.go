package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"APP_ENV", "LOG_LEVEL", "LOG_FILE", "FIREWATCH_API_URL", "API_TIMEOUT",
	"SESSION_STORE", "SESSION_DB", "SESSION_DSN", "FIREWATCH_PROFILE",
	"REGISTER_NOTICE_TTL", "MQTT_BROKER", "MQTT_PORT", "MQTT_TOPIC", "MQTT_CLIENT_ID",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}

	if got.AppEnv != "dev" {
		t.Errorf("AppEnv = %q, want %q", got.AppEnv, "dev")
	}
	if got.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want %v", got.LogLevel, slog.LevelInfo)
	}
	if got.APIBaseURL != "http://localhost:5000/api" {
		t.Errorf("APIBaseURL = %q", got.APIBaseURL)
	}
	if got.APITimeout != 0 {
		t.Errorf("APITimeout = %v, want 0 (no timeout)", got.APITimeout)
	}
	if got.SessionStore != "sqlite" || got.SessionDB != "firewatch.db" {
		t.Errorf("session store = %q %q", got.SessionStore, got.SessionDB)
	}
	if got.Profile != "default" {
		t.Errorf("Profile = %q, want default", got.Profile)
	}
	if got.RegisterNoticeTTL != 3*time.Second {
		t.Errorf("RegisterNoticeTTL = %v, want 3s", got.RegisterNoticeTTL)
	}
	if got.FeedEnabled() {
		t.Errorf("feed should be disabled without MQTT_BROKER")
	}
	if !strings.HasPrefix(got.MQTTClientID, "firewatch-") {
		t.Errorf("MQTTClientID = %q, want firewatch- prefix", got.MQTTClientID)
	}
}

func TestLoadFromEnv_APIURLTrimsSlash(t *testing.T) {
	clearEnv(t)
	t.Setenv("FIREWATCH_API_URL", " https://fire.example.org/api/ ")

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if got.APIBaseURL != "https://fire.example.org/api" {
		t.Errorf("APIBaseURL = %q", got.APIBaseURL)
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "app env", key: "APP_ENV", val: "staging"},
		{name: "log level", key: "LOG_LEVEL", val: "loud"},
		{name: "timeout", key: "API_TIMEOUT", val: "soon"},
		{name: "negative timeout", key: "API_TIMEOUT", val: "-1s"},
		{name: "store", key: "SESSION_STORE", val: "redis"},
		{name: "ttl zero", key: "REGISTER_NOTICE_TTL", val: "0s"},
		{name: "mqtt port", key: "MQTT_PORT", val: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			if _, err := LoadFromEnv(); err == nil {
				t.Fatalf("LoadFromEnv() error = nil, want non-nil for %s=%q", tt.key, tt.val)
			}
		})
	}
}

func TestLoadFromEnv_PostgresRequiresDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_STORE", "postgres")

	if _, err := LoadFromEnv(); err == nil {
		t.Fatalf("expected error without SESSION_DSN")
	}

	t.Setenv("SESSION_DSN", "postgres://fw:fw@localhost/fw?sslmode=disable")
	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if got.SessionStore != "postgres" {
		t.Errorf("SessionStore = %q", got.SessionStore)
	}
}

func TestLoadFromEnv_Feed(t *testing.T) {
	clearEnv(t)
	t.Setenv("MQTT_BROKER", "broker.local")
	t.Setenv("MQTT_PORT", "8883")
	t.Setenv("MQTT_CLIENT_ID", "fw-1")

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if !got.FeedEnabled() || got.MQTTPort != 8883 || got.MQTTClientID != "fw-1" {
		t.Errorf("unexpected feed config: %+v", got)
	}
	if got.MQTTTopic != "firewatch/records/#" {
		t.Errorf("MQTTTopic = %q", got.MQTTTopic)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: " warning ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "nope", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
