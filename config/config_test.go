package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.Population.ReproductionGate != 900 {
		t.Errorf("reproduction gate = %d, want 900", cfg.Population.ReproductionGate)
	}
	if cfg.Population.AbsoluteCap != 1500 {
		t.Errorf("absolute cap = %d, want 1500", cfg.Population.AbsoluteCap)
	}
	if cfg.Reproduction.MaxRetries != 6 {
		t.Errorf("max retries = %d, want 6", cfg.Reproduction.MaxRetries)
	}
	if cfg.Item.DecaySeconds != 60 {
		t.Errorf("item decay = %v, want 60", cfg.Item.DecaySeconds)
	}
	if cfg.Derived.DT32 <= 0 {
		t.Error("derived DT32 should be positive")
	}
	if cfg.Reproduction.ChildInit != "literal" {
		t.Errorf("child init = %q, want literal", cfg.Reproduction.ChildInit)
	}
}

func TestLoadOverlayOnlyOverridesPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	overlay := []byte("population:\n  initial: 7\nclock:\n  steps_per_update: 0\n")
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Population.Initial != 7 {
		t.Errorf("initial = %d, want 7", cfg.Population.Initial)
	}
	if cfg.Population.AbsoluteCap != 1500 {
		t.Errorf("absolute cap should keep default, got %d", cfg.Population.AbsoluteCap)
	}
	if cfg.Clock.StepsPerUpdate != 1 {
		t.Errorf("steps per update should be floored to 1, got %d", cfg.Clock.StepsPerUpdate)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
	}{
		{"zero dt", "clock:\n  dt: 0\n"},
		{"negative world", "world:\n  width: -1\n"},
		{"unknown child init", "reproduction:\n  child_init: sometimes\n"},
		{"unknown light", "environment:\n  light:\n    model: laser\n"},
		{"zero speed scale", "environment:\n  speed_scale: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.overlay), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := MustLoad("")
	cfg.Population.Initial = 42

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load of written config failed: %v", err)
	}
	if loaded.Population.Initial != 42 {
		t.Errorf("initial = %d, want 42", loaded.Population.Initial)
	}
}
