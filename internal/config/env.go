package config

import "github.com/kelseyhightower/envconfig"

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "imgresize"

// Env holds overrides read from IMGRESIZE_* variables. Unset variables stay
// nil so that only values present in the environment are applied.
type Env struct {
	Workers     *int  `envconfig:"WORKERS"`
	Plain       *bool `envconfig:"PLAIN"`
	JPEGQuality *int  `envconfig:"JPEG_QUALITY"`
}

// LoadEnv reads the IMGRESIZE_* environment.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Env{}, err
	}
	return env, nil
}

// Apply copies set environment values into c unless the matching flag was
// given explicitly. flagSet reports whether a named flag was set.
func (e Env) Apply(c *Config, flagSet func(name string) bool) {
	if flagSet == nil {
		flagSet = func(string) bool { return false }
	}
	if e.Workers != nil && !flagSet("workers") {
		c.Workers = *e.Workers
	}
	if e.Plain != nil && !flagSet("plain") {
		c.Plain = *e.Plain
	}
	if e.JPEGQuality != nil && !flagSet("jpeg-quality") {
		c.JPEGQuality = *e.JPEGQuality
	}
}
