package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.RefreshInterval != 24*time.Hour {
		t.Errorf("RefreshInterval = %s, want 24h", cfg.RefreshInterval)
	}
	if len(cfg.FixtureURLs) == 0 {
		t.Error("FixtureURLs is empty, want compiled-in default")
	}
}

func TestLoad_RefreshIntervalBounds(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid", value: "6h"},
		{name: "not a duration", value: "soon", wantErr: true},
		{name: "too small", value: "5m", wantErr: true},
		{name: "too large", value: "800h", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PSL_REFRESH_INTERVAL", tt.value)
			_, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_FixtureURLOverride(t *testing.T) {
	t.Setenv("FIXTURE_URLS", "http://localhost/a, http://localhost/b ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	want := []string{"http://localhost/a", "http://localhost/b"}
	if len(cfg.FixtureURLs) != len(want) {
		t.Fatalf("FixtureURLs = %v, want %v", cfg.FixtureURLs, want)
	}
	for i := range want {
		if cfg.FixtureURLs[i] != want[i] {
			t.Errorf("FixtureURLs[%d] = %q, want %q", i, cfg.FixtureURLs[i], want[i])
		}
	}
}
