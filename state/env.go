// Package state defines shared program state.
package state

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/miekg/rfcmark/catalog"
	"github.com/miekg/rfcmark/config"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Log *zap.Logger

	start         time.Time
	restoreStdLog func()
	catalogs      *catalog.Set
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &LocalEnv{start: time.Now()})
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}

// Catalogs returns the catalog set described by the configuration, created
// on first use.
func (e *LocalEnv) Catalogs() (*catalog.Set, error) {
	if e.catalogs != nil {
		return e.catalogs, nil
	}
	if e.Cfg == nil {
		return nil, fmt.Errorf("no configuration")
	}
	c := e.Cfg.Catalogs
	dir := c.CacheDir
	if dir == "" {
		var err error
		if dir, err = catalog.DefaultDir(); err != nil {
			return nil, err
		}
	}
	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}
	e.catalogs = catalog.New(catalog.Options{
		Dir:           dir,
		Timeout:       c.Timeout,
		WorkingGroups: c.WorkingGroups,
		Bibliography:  c.Bibliography,
		Logger:        log.Named("catalog"),
	})
	return e.catalogs, nil
}

// BiblioDir returns the directory holding reference files, if configured and
// present.
func (e *LocalEnv) BiblioDir() (string, bool) {
	if e.Cfg == nil || e.Cfg.Conversion.BiblioDir == "" {
		return "", false
	}
	dir := e.Cfg.Conversion.BiblioDir
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		if e.Log != nil {
			e.Log.Warn("Reference directory not accessible, ignoring it", zap.String("dir", dir))
		}
		return "", false
	}
	return dir, true
}
