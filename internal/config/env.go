package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvDBDir         = "PRIVACYSCAN_DB_DIR"
	EnvMaxTabs       = "PRIVACYSCAN_MAX_TABS"
	EnvVerbose       = "PRIVACYSCAN_VERBOSE"
	EnvInjectionRate = "PRIVACYSCAN_INJECTION_RATE"
)

// DefaultEnvFile is the dotenv file read from the working directory.
const DefaultEnvFile = ".env"

// ApplyEnv overlays PRIVACYSCAN_* variables onto c. Variables in the process
// environment win over those read from envFiles; missing env files are
// skipped. The process environment is not modified.
func ApplyEnv(c *Config, envFiles ...string) error {
	fileVars := make(map[string]string)
	for _, path := range envFiles {
		vars, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		for k, v := range vars {
			if _, ok := fileVars[k]; !ok {
				fileVars[k] = v
			}
		}
	}

	return applyEnv(c, func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	})
}

func applyEnv(c *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDBDir); ok && v != "" {
		c.DBDir = v
	}
	if v, ok := lookup(EnvMaxTabs); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnvValue, EnvMaxTabs, v)
		}
		c.MaxTabs = n
	}
	if v, ok := lookup(EnvVerbose); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnvValue, EnvVerbose, v)
		}
		c.Verbose = b
	}
	if v, ok := lookup(EnvInjectionRate); ok && v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnvValue, EnvInjectionRate, v)
		}
		c.InjectionRate = r
	}
	return nil
}
