package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	LogFile  string

	APIBaseURL string
	APITimeout time.Duration

	SessionStore string
	SessionDB    string
	SessionDSN   string
	Profile      string

	RegisterNoticeTTL time.Duration

	MQTTBroker   string
	MQTTPort     int
	MQTTTopic    string
	MQTTClientID string
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	logFile := strings.TrimSpace(os.Getenv("LOG_FILE"))
	if logFile == "" {
		logFile = "firewatch.log"
	}

	apiURL := strings.TrimRight(strings.TrimSpace(os.Getenv("FIREWATCH_API_URL")), "/")
	if apiURL == "" {
		apiURL = "http://localhost:5000/api"
	}

	apiTimeout, err := durationEnv("API_TIMEOUT", 0)
	if err != nil {
		return Config{}, err
	}
	if apiTimeout < 0 {
		return Config{}, fmt.Errorf("API_TIMEOUT must not be negative, got %v", apiTimeout)
	}

	storeKind := strings.ToLower(strings.TrimSpace(os.Getenv("SESSION_STORE")))
	if storeKind == "" {
		storeKind = "sqlite"
	}
	switch storeKind {
	case "sqlite", "postgres", "memory":
	default:
		return Config{}, fmt.Errorf("invalid SESSION_STORE %q (allowed: sqlite, postgres, memory)", storeKind)
	}

	sessionDB := strings.TrimSpace(os.Getenv("SESSION_DB"))
	if sessionDB == "" {
		sessionDB = "firewatch.db"
	}
	sessionDSN := strings.TrimSpace(os.Getenv("SESSION_DSN"))
	if storeKind == "postgres" && sessionDSN == "" {
		return Config{}, fmt.Errorf("SESSION_DSN is required when SESSION_STORE=postgres")
	}

	profile := strings.TrimSpace(os.Getenv("FIREWATCH_PROFILE"))
	if profile == "" {
		profile = "default"
	}

	noticeTTL, err := durationEnv("REGISTER_NOTICE_TTL", 3*time.Second)
	if err != nil {
		return Config{}, err
	}
	if noticeTTL <= 0 {
		return Config{}, fmt.Errorf("REGISTER_NOTICE_TTL must be positive, got %v", noticeTTL)
	}

	mqttPortStr := strings.TrimSpace(os.Getenv("MQTT_PORT"))
	if mqttPortStr == "" {
		mqttPortStr = "1883"
	}
	mqttPort, err := strconv.Atoi(mqttPortStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %q: %w", mqttPortStr, err)
	}

	mqttTopic := strings.TrimSpace(os.Getenv("MQTT_TOPIC"))
	if mqttTopic == "" {
		mqttTopic = "firewatch/records/#"
	}

	mqttClientID := strings.TrimSpace(os.Getenv("MQTT_CLIENT_ID"))
	if mqttClientID == "" {
		mqttClientID = "firewatch-" + uuid.NewString()
	}

	return Config{
		AppEnv:            appEnv,
		LogLevel:          level,
		LogFile:           logFile,
		APIBaseURL:        apiURL,
		APITimeout:        apiTimeout,
		SessionStore:      storeKind,
		SessionDB:         sessionDB,
		SessionDSN:        sessionDSN,
		Profile:           profile,
		RegisterNoticeTTL: noticeTTL,
		MQTTBroker:        strings.TrimSpace(os.Getenv("MQTT_BROKER")),
		MQTTPort:          mqttPort,
		MQTTTopic:         mqttTopic,
		MQTTClientID:      mqttClientID,
	}, nil
}

// FeedEnabled reports whether a broker was configured for live change signals.
func (c Config) FeedEnabled() bool {
	return c.MQTTBroker != ""
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
