package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONFIG_ENV", "missing")
	t.Setenv("PEERVIEW_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.InvitationTTL != 5*time.Minute || cfg.RoleSwitchWindow != 45*time.Minute {
		t.Fatalf("unexpected timers: %v / %v", cfg.InvitationTTL, cfg.RoleSwitchWindow)
	}
	if cfg.QuestionCount != 5 || cfg.Store.Driver != "memory" || cfg.RelayPolicy != "drop" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.ICEServers) != 1 || cfg.ICEServers[0].URLs[0] != "stun:stun.l.google.com:19302" {
		t.Fatalf("unexpected ice servers: %+v", cfg.ICEServers)
	}
	if cfg.Secret != "s3cret" {
		t.Fatalf("expected secret from env, got: %q", cfg.Secret)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONFIG_ENV", "missing")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without a secret")
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := chdirTemp(t)
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	yaml := []byte("mode: debug\nport: 9090\nsecret: from-file\nrole_switch_window: 30m\nstore:\n  driver: sqlite\n  sqlite_path: test.db\n")
	if err := os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), yaml, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CONFIG_ENV", "test")
	t.Setenv("PEERVIEW_PORT", "7070")
	t.Setenv("PEERVIEW_LEDGER_DRIVER", "sqlite")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Mode != "debug" || cfg.Port != 7070 || cfg.RoleSwitchWindow != 30*time.Minute {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.SQLitePath != "test.db" || cfg.Ledger.Driver != "sqlite" {
		t.Fatalf("unexpected stores: %+v / %+v", cfg.Store, cfg.Ledger)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONFIG_ENV", "missing")
	t.Setenv("PEERVIEW_SECRET", "s3cret")
	t.Setenv("PEERVIEW_STORE_DRIVER", "oracle")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error")
	}
}
