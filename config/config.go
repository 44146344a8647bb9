package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Default values, overridable by environment variables.
const (
	DefaultWindow    = 1000
	DefaultEdge      = 0
	DefaultQuantiles = 5
	DefaultSample    = 30
)

// Environment variables read by Load.
const (
	EnvWindow    = "ALNCOL_WINDOW"
	EnvEdge      = "ALNCOL_EDGE"
	EnvQuantiles = "ALNCOL_QUANTILES"
	EnvSample    = "ALNCOL_SAMPLE"
)

// Config holds the parameters of a run.
type Config struct {
	Cpu, MaxBuf        int
	Window, Edge       int
	Quantiles, Sample  int
	Reference, Targets string
	// Seed of the sampling random source; 0 picks a time based seed.
	Seed               int64
}

func NewConfig(cpu, maxBuf, window, edge, quantiles, sample int) *Config {
	return &Config{
		Cpu:       cpu,
		MaxBuf:    maxBuf,
		Window:    window,
		Edge:      edge,
		Quantiles: quantiles,
		Sample:    sample,
	}
}

// Defaults returns the built-in defaults overridden by any ALNCOL_*
// variable found in the environment. If envFile is not empty it is loaded
// first; variables already set in the environment are not overwritten.
func Defaults(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, errors.Wrapf(err, "loading %s", envFile)
		}
	}
	cfg := NewConfig(1, 1000, DefaultWindow, DefaultEdge, DefaultQuantiles, DefaultSample)
	for _, v := range []struct {
		name string
		dst  *int
	}{
		{EnvWindow, &cfg.Window},
		{EnvEdge, &cfg.Edge},
		{EnvQuantiles, &cfg.Quantiles},
		{EnvSample, &cfg.Sample},
	} {
		s, ok := os.LookupEnv(v.name)
		if !ok || s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", v.name)
		}
		*v.dst = n
	}
	return cfg, nil
}

// Validate checks the parameters are usable.
func (c *Config) Validate() error {
	switch {
	case c.Window < 1:
		return errors.Errorf("window size must be positive, got %d", c.Window)
	case c.Edge < 0:
		return errors.Errorf("edge margin must not be negative, got %d", c.Edge)
	case c.Quantiles < 1:
		return errors.Errorf("number of quality quantiles must be positive, got %d", c.Quantiles)
	case c.Sample < 0 || c.Sample > 100:
		return errors.Errorf("sampling percentage must be within [0, 100], got %d", c.Sample)
	case c.Cpu < 1:
		return errors.Errorf("number of cpus must be positive, got %d", c.Cpu)
	}
	return nil
}
