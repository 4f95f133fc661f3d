package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apiprobe/apiprobe/packages/core/config"
	"github.com/apiprobe/apiprobe/packages/core/env"
	"github.com/apiprobe/apiprobe/packages/descriptor"
	"github.com/apiprobe/apiprobe/packages/engine"
	"github.com/apiprobe/apiprobe/packages/history"
	"github.com/apiprobe/apiprobe/packages/source"
)

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return defaultVal
}

// loadConfigFlag loads the config file named by flag, or searches the
// working directory for one of the well-known names.
func loadConfigFlag(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfig(path)
	}
	return config.FindAndLoadConfig(".")
}

// loadArtifact reads a file and normalizes it. The kind is inferred from
// the file name unless overridden by flag.
func loadArtifact(path, kindFlag string) (*descriptor.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}

	kindName := kindFlag
	if kindName == "" {
		kindName = source.KindHint(path)
	}
	kind, err := descriptor.ParseKind(kindName)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return descriptor.Normalize(kind, name, path, string(data)), nil
}

// buildEnvironments assembles the environment manager from the config's
// environments section, an optional .env file, and the --env selection.
func buildEnvironments(cfg *config.Config, envName, envFile string) (*env.Manager, error) {
	mgr := env.NewManager(env.FromConfig(cfg.Environments)...)

	if envFile != "" {
		fileEnv, err := env.LoadDotenv(strings.TrimSuffix(filepath.Base(envFile), filepath.Ext(envFile)), envFile)
		if err != nil {
			return nil, err
		}
		mgr.Set(fileEnv)
		if envName == "" {
			envName = fileEnv.Name
		}
	}

	if envName == "" {
		envName = cfg.DefaultEnvironment
	}
	if envName != "" {
		if err := mgr.SetCurrent(envName); err != nil {
			return nil, err
		}
	}

	mgr.SetWarnFunc(func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
	})
	return mgr, nil
}

// buildEngine wires the transport per config and flags. --simulate (or the
// config's simulate setting) swaps in the canned responder.
func buildEngine(cfg *config.Config, envs *env.Manager, simulate bool) *engine.Engine {
	if simulate || cfg.GetSimulate() {
		return engine.New(engine.NewSimulatedTransport(), envs)
	}

	opts := []engine.HTTPOption{
		engine.WithFollowRedirects(cfg.GetFollowRedirects()),
		engine.WithValidateSSL(cfg.GetValidateSSL()),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, engine.WithTimeout(time.Duration(cfg.Timeout)*time.Millisecond))
	}
	if cfg.MaxRedirects > 0 {
		opts = append(opts, engine.WithMaxRedirects(cfg.MaxRedirects))
	}
	if cfg.Proxy != "" {
		opts = append(opts, engine.WithProxy(cfg.Proxy))
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, engine.WithDefaultHeaders(cfg.Headers))
	}
	return engine.New(engine.NewHTTPTransport(opts...), envs)
}

// openHistory opens the configured history store. Without a configured
// database path the store lives in memory for the process lifetime.
func openHistory(cfg *config.Config) (history.Store, func(), error) {
	if cfg.HistoryDB == "" {
		return history.NewMemoryStore(), func() {}, nil
	}

	store, err := history.NewSQLiteStore(cfg.HistoryDB)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

// repoKey identifies the history bucket for an artifact path.
func repoKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
