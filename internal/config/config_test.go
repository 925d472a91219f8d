package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.FeedURL != "wss://stream.aisstream.io/v0/stream" {
		t.Errorf("FeedURL = %q, want the default feed endpoint", cfg.FeedURL)
	}
	if cfg.RunSeconds != 120 {
		t.Errorf("RunSeconds = %d, want 120", cfg.RunSeconds)
	}
	if cfg.QuietTimeoutSeconds != 15 {
		t.Errorf("QuietTimeoutSeconds = %d, want 15", cfg.QuietTimeoutSeconds)
	}
	if cfg.StoppedSpeedKnots != 1.0 {
		t.Errorf("StoppedSpeedKnots = %v, want 1.0", cfg.StoppedSpeedKnots)
	}
	if cfg.PortZoneID != "berbera_port" || cfg.AnchorageZoneID != "berbera_anchorage" {
		t.Errorf("zone ids = %q/%q, want berbera defaults", cfg.PortZoneID, cfg.AnchorageZoneID)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("RUN_SECONDS", "45")
	t.Setenv("BBOX", "1.0,2.0,3.0,4.0")
	t.Setenv("AISS_API_KEY", ` "secret-key" `)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.RunSeconds != 45 {
		t.Errorf("RunSeconds = %d, want 45", cfg.RunSeconds)
	}
	if cfg.BBox != "1.0,2.0,3.0,4.0" {
		t.Errorf("BBox = %q, want override", cfg.BBox)
	}
	if cfg.AISSAPIKey != "secret-key" {
		t.Errorf("AISSAPIKey = %q, want quotes and whitespace stripped", cfg.AISSAPIKey)
	}
	// Untouched keys keep their defaults.
	if cfg.MongoDatabase != "portwatch" {
		t.Errorf("MongoDatabase = %q, want default", cfg.MongoDatabase)
	}
}

func TestBoundingBox(t *testing.T) {
	tests := []struct {
		name    string
		bbox    string
		want    [4]float64
		wantErr bool
	}{
		{name: "default", bbox: "44.95,10.35,45.10,10.50", want: [4]float64{44.95, 10.35, 45.10, 10.50}},
		{name: "with spaces", bbox: " 1.0, 2.0, 3.0, 4.0 ", want: [4]float64{1, 2, 3, 4}},
		{name: "too few values", bbox: "1.0,2.0,3.0", wantErr: true},
		{name: "not numeric", bbox: "a,b,c,d", wantErr: true},
		{name: "min not below max", bbox: "3.0,2.0,1.0,4.0", wantErr: true},
		{name: "empty", bbox: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{BBox: tt.bbox}
			got, err := cfg.BoundingBox()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("BoundingBox() expected error for %q", tt.bbox)
				}
				return
			}
			if err != nil {
				t.Fatalf("BoundingBox() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("BoundingBox() = %v, want %v", got, tt.want)
			}
		})
	}
}
