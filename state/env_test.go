package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/miekg/rfcmark/catalog"
	"github.com/miekg/rfcmark/config"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
}

func TestEnvFromContext_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	time.Sleep(10 * time.Millisecond)
	if uptime := env.Uptime(); uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
}

func TestLocalEnv_StdLog(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	env.Log = zaptest.NewLogger(t)

	env.RedirectStdLog()
	if env.restoreStdLog == nil {
		t.Fatal("RedirectStdLog() did not set restore function")
	}
	env.RestoreStdLog()
}

func TestLocalEnv_Catalogs(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if _, err := env.Catalogs(); err == nil {
		t.Fatal("Catalogs() without configuration should fail")
	}

	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	dir := t.TempDir()
	cfg.Catalogs.CacheDir = dir
	env.Cfg = cfg
	env.Log = zaptest.NewLogger(t)

	set, err := env.Catalogs()
	if err != nil {
		t.Fatalf("Catalogs() error = %v", err)
	}
	if got, want := set.Path(catalog.Bibliography), filepath.Join(dir, "bibliography.json"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
	again, _ := env.Catalogs()
	if again != set {
		t.Error("Catalogs() created a second set")
	}
}

func TestLocalEnv_BiblioDir(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	env.Cfg = &config.Config{}
	if _, ok := env.BiblioDir(); ok {
		t.Error("BiblioDir() reported a directory without configuration")
	}

	env.Cfg.Conversion.BiblioDir = filepath.Join(t.TempDir(), "missing")
	if _, ok := env.BiblioDir(); ok {
		t.Error("BiblioDir() reported a missing directory")
	}

	dir := t.TempDir()
	env.Cfg.Conversion.BiblioDir = dir
	if got, ok := env.BiblioDir(); !ok || got != dir {
		t.Errorf("BiblioDir() = %q, %v, want %q, true", got, ok, dir)
	}
}
