package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config carries every value the portwatch commands consume. It is built once
// at process start and passed by reference; nothing reads the environment
// after Load returns.
type Config struct {
	// AISSAPIKey authenticates the aisstream.io subscription.
	AISSAPIKey string `koanf:"aiss_api_key"`
	// FeedURL is the websocket endpoint of the position feed.
	FeedURL string `koanf:"feed_url"`

	MongoURI      string `koanf:"mongodb_uri"`
	MongoDatabase string `koanf:"mongodb_database"`
	RedisURL      string `koanf:"redis_url"`

	// BBox is the subscription bounding box as "minLon,minLat,maxLon,maxLat".
	BBox string `koanf:"bbox"`

	RunSeconds          int     `koanf:"run_seconds"`
	QuietTimeoutSeconds int     `koanf:"quiet_timeout_seconds"`
	StoppedSpeedKnots   float64 `koanf:"stopped_speed_knots"`

	PortZoneID      string `koanf:"port_zone_id"`
	AnchorageZoneID string `koanf:"anchorage_zone_id"`

	HTTPAddr  string `koanf:"http_addr"`
	JWTSecret string `koanf:"jwt_secret"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

func defaultConfig() *Config {
	return &Config{
		FeedURL:             "wss://stream.aisstream.io/v0/stream",
		MongoDatabase:       "portwatch",
		BBox:                "44.95,10.35,45.10,10.50",
		RunSeconds:          120,
		QuietTimeoutSeconds: 15,
		StoppedSpeedKnots:   1.0,
		PortZoneID:          "berbera_port",
		AnchorageZoneID:     "berbera_anchorage",
		HTTPAddr:            ":8000",
		LogLevel:            "info",
		LogFormat:           "json",
	}
}

// Load builds the configuration from environment variables layered over the
// built-in defaults.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := defaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	// Secrets pasted into CI secret stores tend to pick up stray quotes and
	// whitespace; strip them before they reach a dialer.
	cfg.AISSAPIKey = cleanSecret(cfg.AISSAPIKey)
	cfg.MongoURI = cleanSecret(cfg.MongoURI)
	cfg.RedisURL = cleanSecret(cfg.RedisURL)
	cfg.JWTSecret = cleanSecret(cfg.JWTSecret)

	return cfg, nil
}

func cleanSecret(v string) string {
	return strings.Trim(strings.TrimSpace(v), `"'`)
}

// BoundingBox parses BBox into [minLon, minLat, maxLon, maxLat].
func (c *Config) BoundingBox() ([4]float64, error) {
	parts := strings.Split(c.BBox, ",")
	if len(parts) != 4 {
		return [4]float64{}, fmt.Errorf("bbox %q: want 4 comma-separated values", c.BBox)
	}

	var box [4]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return [4]float64{}, fmt.Errorf("bbox %q: %w", c.BBox, err)
		}
		box[i] = v
	}

	if box[0] >= box[2] || box[1] >= box[3] {
		return [4]float64{}, fmt.Errorf("bbox %q: min must be less than max", c.BBox)
	}
	return box, nil
}

// RunWindow is the wall-clock budget of one ingest run.
func (c *Config) RunWindow() time.Duration {
	return time.Duration(c.RunSeconds) * time.Second
}

// QuietTimeout is how long the ingestor waits for a message before re-sending
// the subscription.
func (c *Config) QuietTimeout() time.Duration {
	return time.Duration(c.QuietTimeoutSeconds) * time.Second
}
