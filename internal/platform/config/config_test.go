package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.DBPath != "fractured.db" {
		t.Errorf("DBPath = %q, want fractured.db", cfg.DBPath)
	}
	if cfg.SessionID != "SESSION_1" {
		t.Errorf("SessionID = %q, want SESSION_1", cfg.SessionID)
	}
	if cfg.PulseInterval != 2*time.Second {
		t.Errorf("PulseInterval = %v, want 2s", cfg.PulseInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FRACTURED_ADDR", ":9999")
	t.Setenv("FRACTURED_PULSE_INTERVAL", "500ms")
	t.Setenv("FRACTURED_STORY", "custom.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", cfg.Addr)
	}
	if cfg.PulseInterval != 500*time.Millisecond {
		t.Errorf("PulseInterval = %v, want 500ms", cfg.PulseInterval)
	}
	if cfg.StoryPath != "custom.yaml" {
		t.Errorf("StoryPath = %q, want custom.yaml", cfg.StoryPath)
	}
}
