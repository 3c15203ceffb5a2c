package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEnvPaths are tried in order; the first existing file is loaded.
var DefaultEnvPaths = []string{
	".env",
	".env.local",
	"env",
	"../.env",
}

// LoadEnv loads environment variables from the first env file that exists.
// Variables already set in the process environment win. A missing file is
// not an error; the loaded path is returned, or "" when none was found.
func LoadEnv(paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = DefaultEnvPaths
	}
	for _, envPath := range paths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}
	return "", nil
}

// env reads variables, remembering which ones were set and which were malformed.
type env struct {
	set      map[string]bool
	warnings []string
}

func newEnv() *env {
	return &env{set: make(map[string]bool)}
}

func (e *env) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	e.set[key] = true
	return v, true
}

func (e *env) str(key, def string) string {
	if v, ok := e.lookup(key); ok {
		return v
	}
	return def
}

func (e *env) integer(key string, def int) int {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.warnings = append(e.warnings, fmt.Sprintf("%s=%q is not a number, using %d", key, v, def))
		delete(e.set, key)
		return def
	}
	return n
}

func (e *env) int64(key string, def int64) int64 {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		e.warnings = append(e.warnings, fmt.Sprintf("%s=%q is not a number, using %d", key, v, def))
		delete(e.set, key)
		return def
	}
	return n
}

// flag accepts 1/0, true/false, yes/no, on/off.
func (e *env) flag(key string, def bool) bool {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	e.warnings = append(e.warnings, fmt.Sprintf("%s=%q is not a boolean, using %t", key, v, def))
	delete(e.set, key)
	return def
}

func (e *env) millis(key string, def time.Duration) time.Duration {
	n := e.integer(key, int(def/time.Millisecond))
	return time.Duration(n) * time.Millisecond
}
