package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Animation.Speed != 1.0 {
		t.Errorf("expected speed 1.0, got %f", cfg.Animation.Speed)
	}
	if cfg.Animation.MinInterval != 16 {
		t.Errorf("expected min interval 16, got %f", cfg.Animation.MinInterval)
	}
	if cfg.Render.Mode != "blocks" {
		t.Errorf("expected blocks mode, got %s", cfg.Render.Mode)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := []byte("animation:\n  speed: 2.5\n  autostart: true\nrender:\n  mode: braille\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Animation.Speed != 2.5 || !cfg.Animation.Autostart {
		t.Errorf("unexpected animation config %+v", cfg.Animation)
	}
	if cfg.Render.Mode != "braille" {
		t.Errorf("expected braille, got %s", cfg.Render.Mode)
	}
	if cfg.Animation.RefreshRate != DefaultRefreshRate {
		t.Error("unset fields should keep defaults")
	}
}

func TestLoadExplicitZeroSpeedClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("animation:\n  speed: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Animation.Speed != MinSpeed {
		t.Errorf("expected speed %v, got %v", MinSpeed, cfg.Animation.Speed)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("animation: [1, 2"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Animation.Speed = 3

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Animation.Speed != 3 {
		t.Errorf("expected speed 3, got %f", loaded.Animation.Speed)
	}
}

func TestValidateClamps(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
		init  float64
		wantS float64
		wantV float64
	}{
		{"too fast", 20, 0, MaxSpeed, 0},
		{"too slow", 0.01, 0, MinSpeed, 0},
		{"zero speed", 0, 0, MinSpeed, 0},
		{"value high", 1, 250, 1, 100},
		{"value low", 1, -250, 1, -100},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Animation.Speed = tt.speed
		cfg.Animation.InitialValue = tt.init
		cfg.Render.Zoom = 0
		cfg.Animation.MinInterval = -1
		cfg.Validate()

		if cfg.Animation.Speed != tt.wantS {
			t.Errorf("%s: expected speed %v, got %v", tt.name, tt.wantS, cfg.Animation.Speed)
		}
		if cfg.Animation.InitialValue != tt.wantV {
			t.Errorf("%s: expected value %v, got %v", tt.name, tt.wantV, cfg.Animation.InitialValue)
		}
		if cfg.Render.Zoom != DefaultZoom || cfg.Animation.MinInterval != DefaultMinInterval {
			t.Errorf("%s: defaults not restored", tt.name)
		}
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("strobe")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if p.Speed != 5.0 {
		t.Errorf("expected speed 5.0, got %f", p.Speed)
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Error("presets should be sorted")
		}
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Animation.Autostart = true

	if !cfg.ApplyPreset("gentle") {
		t.Fatal("expected preset to apply")
	}
	if cfg.Animation.Speed != 0.3 || !cfg.Animation.Autostart {
		t.Errorf("unexpected animation config %+v", cfg.Animation)
	}
	if cfg.ApplyPreset("missing") {
		t.Error("unknown preset should not apply")
	}
}
