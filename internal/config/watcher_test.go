package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, minimalYAML)

	reloaded := make(chan *Config, 1)
	wc := &WatcherConfig{
		DebounceDuration: 50 * time.Millisecond,
		OnChange: func(cfg *Config) error {
			select {
			case reloaded <- cfg:
			default:
			}
			return nil
		},
	}

	w, err := NewWatcher(path, wc, discardLogger())
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	w.Start()
	defer w.Stop()

	updated := `
server:
  port: 9191
upstream:
  match:
    url: http://localhost:9000
  catalog:
    url: https://itunes.apple.com
`
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("Failed to rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Server.Port != 9191 {
			t.Errorf("Expected reloaded port 9191, got %d", cfg.Server.Port)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for reload")
	}
}

func TestWatcherReportsInvalidConfig(t *testing.T) {
	path := writeConfig(t, minimalYAML)

	failed := make(chan error, 1)
	wc := &WatcherConfig{
		DebounceDuration: 50 * time.Millisecond,
		OnChange: func(cfg *Config) error {
			t.Error("OnChange called for invalid config")
			return nil
		},
		OnError: func(err error) {
			select {
			case failed <- err:
			default:
			}
		},
	}

	w, err := NewWatcher(path, wc, discardLogger())
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	w.Start()
	defer w.Stop()

	// Port 0 fails validation
	if err := os.WriteFile(path, []byte("server:\n  port: 0\n"), 0o644); err != nil {
		t.Fatalf("Failed to rewrite config: %v", err)
	}

	select {
	case <-failed:
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for reload error")
	}
}

func TestWatcherRejectsMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := NewWatcher(missing, nil, discardLogger()); err == nil {
		t.Error("Expected error for missing config file")
	}
}
