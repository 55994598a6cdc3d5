package config

import (
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once

	cacheMu sync.RWMutex
	cache   = map[reflect.Type]any{}
)

// loadDotenv loads a .env file from the working directory at most once
// per process. A missing file is not an error — env vars may come from
// the real environment instead.
func loadDotenv() {
	dotenvOnce.Do(func() {
		if _, err := os.Stat(".env"); err == nil {
			_ = godotenv.Load()
		}
	})
}

// Load populates a zero-valued T from environment variables using
// `env`-tagged struct fields, caching the result for the lifetime of the
// process so repeated calls for the same T are free and consistent.
func Load[T any]() (T, error) {
	loadDotenv()

	var zero T
	t := reflect.TypeOf(zero)

	cacheMu.RLock()
	if v, ok := cache[t]; ok {
		cacheMu.RUnlock()
		return v.(T), nil
	}
	cacheMu.RUnlock()

	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return zero, fmt.Errorf("config: parse %s: %w", t, err)
	}

	cacheMu.Lock()
	cache[t] = cfg
	cacheMu.Unlock()

	return cfg, nil
}

// MustLoad is Load but panics on failure. Intended for use during process
// startup where a malformed environment should halt the program
// immediately — this is the one place spec.md allows a fatal error
// (ConfigurationError, §7).
func MustLoad[T any]() T {
	cfg, err := Load[T]()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Reset clears the cached value for T, forcing the next Load[T] call to
// re-parse the environment. Intended for tests.
func Reset[T any]() {
	var zero T
	t := reflect.TypeOf(zero)
	cacheMu.Lock()
	delete(cache, t)
	cacheMu.Unlock()
}
