package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[app]\nprint_every_min = 2\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.PrintEveryMin != 2 {
		t.Errorf("expected print_every_min 2, got %d", cfg.App.PrintEveryMin)
	}
	if cfg.Poll.URL != DefaultPollURL {
		t.Errorf("expected default url, got %q", cfg.Poll.URL)
	}
	if cfg.PollInterval() != 500*time.Millisecond {
		t.Errorf("expected 500ms interval, got %v", cfg.PollInterval())
	}
	if cfg.FrameInterval() != 100*time.Millisecond {
		t.Errorf("expected 100ms frames, got %v", cfg.FrameInterval())
	}
}

func TestLoadPollSection(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[poll]
url = "http://localhost/poll.json"
port = 8080
interval_ms = 250
timeout_sec = 3
invalidate_on_parse_error = true
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Poll.Port != 8080 || cfg.PollInterval() != 250*time.Millisecond || cfg.PollTimeout() != 3*time.Second {
		t.Errorf("unexpected poll config %+v", cfg.Poll)
	}
	if !cfg.Poll.InvalidateOnParseError {
		t.Errorf("expected invalidate_on_parse_error true")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := map[string]string{
		"relative url":    "[poll]\nurl = \"/poll.json\"\n",
		"bad port":        "[poll]\nport = 70000\n",
		"postgres no dsn": "[postgres]\nenabled = true\n",
		"malformed toml":  "[poll\n",
	}
	for name, body := range tests {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := validate(cfg); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Redis.Enabled || cfg.SQLite.Enabled || cfg.Postgres.Enabled || cfg.Feed.Enabled {
		t.Errorf("recorders and feed must be off by default")
	}
}

func TestResolve(t *testing.T) {
	if _, err := Resolve(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("an explicit missing file must be an error")
	}

	path := writeConfig(t, "[app]\nframe_ms = 40\n")
	cfg, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.App.FrameMs != 40 {
		t.Errorf("expected frame_ms 40, got %d", cfg.App.FrameMs)
	}
}

func TestResolveWithoutDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("missing default file should fall back, got %v", err)
	}
	if cfg.Poll.URL != DefaultPollURL {
		t.Errorf("expected defaults, got %q", cfg.Poll.URL)
	}
}
