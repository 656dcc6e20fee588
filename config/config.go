// Package config loads the deployment target (account and region) from a
// local .env file merged under the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Recognised keys.
const (
	EnvAccount = "CDK_DEFAULT_ACCOUNT"
	EnvRegion  = "CDK_DEFAULT_REGION"
)

// DefaultEnvFile is read when no other path is given.
const DefaultEnvFile = ".env"

// EdgeRegion is where Lambda@Edge functions must be created.
const EdgeRegion = "us-east-1"

var (
	ErrMissingAccount = errors.New(EnvAccount + " is not set")
	ErrMissingRegion  = errors.New(EnvRegion + " is not set")
)

// Config is the deployment target a stack is synthesized for.
type Config struct {
	Account string
	Region  string

	// EnvFile is the file values were read from, empty when none existed.
	EnvFile string
}

// Load reads envFile (a missing file is fine) and overlays the process
// environment: a non-empty process variable wins over the file.
// Load does not validate; call Validate.
func Load(envFile string) (Config, error) {
	values := map[string]string{}
	var cfg Config

	if envFile != "" {
		read, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			values = read
			cfg.EnvFile = envFile
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	for _, key := range []string{EnvAccount, EnvRegion} {
		if v := os.Getenv(key); v != "" {
			values[key] = v
		}
	}

	cfg.Account = values[EnvAccount]
	cfg.Region = values[EnvRegion]
	return cfg, nil
}

// Validate reports every missing key. Both account and region are required.
func (c Config) Validate() error {
	var errs []error
	if c.Account == "" {
		errs = append(errs, ErrMissingAccount)
	}
	if c.Region == "" {
		errs = append(errs, ErrMissingRegion)
	}
	return errors.Join(errs...)
}

// IsEdgeRegion reports whether the region can host Lambda@Edge functions.
func (c Config) IsEdgeRegion() bool {
	return c.Region == EdgeRegion
}
