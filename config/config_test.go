package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if c.Map.Width != 40 || c.Map.Height != 40 || c.Map.Excluded != 3 {
		t.Errorf("map = %+v, want 40x40 excluding 3", c.Map)
	}
	if c.Map.ClearDelay != 500*time.Millisecond {
		t.Errorf("clear delay = %v, want 500ms", c.Map.ClearDelay)
	}
	if c.Render.MSAASamples != 4 {
		t.Errorf("msaa samples = %d, want 4", c.Render.MSAASamples)
	}
	if len(c.Lights.Points) != 1 {
		t.Errorf("point lights = %d, want 1", len(c.Lights.Points))
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oxy.yaml")
	data := "map:\n  width: 10\n  height: 12\nrender:\n  msaa_samples: 1\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Map.Width != 10 || c.Map.Height != 12 {
		t.Errorf("map size = %dx%d, want 10x12", c.Map.Width, c.Map.Height)
	}
	if c.Map.Excluded != 3 {
		t.Errorf("excluded = %d, want default 3", c.Map.Excluded)
	}
	if c.Render.MSAASamples != 1 {
		t.Errorf("msaa = %d, want 1", c.Render.MSAASamples)
	}
	if c.Window.Title != "oxy-tiles" {
		t.Errorf("title = %q, want default", c.Window.Title)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"msaa", "render:\n  msaa_samples: 2\n", "msaa_samples"},
		{"empty map", "map:\n  width: 0\n", "map size"},
		{"clip range", "camera:\n  near: 5\n  far: 1\n", "clip range"},
		{"log level", "log:\n  level: loud\n", "log level"},
		{"workers", "workers: 0\n", "workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}
