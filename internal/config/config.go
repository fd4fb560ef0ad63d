// Package config holds runtime configuration: defaults, environment
// overrides, and the validation pass that turns raw flag values into an
// immutable Settings snapshot shared by every worker.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"imgresize/internal/policy"
)

// Defaults for the command-line surface.
const (
	DefaultMinSize     uint64 = 307200
	DefaultWidth              = 1920
	DefaultHeight             = 1080
	DefaultQuality            = 3
	DefaultJPEGQuality        = 75
)

// Config holds raw run parameters as collected from flags and the
// environment. It is validated once by [Config.Validate]; nothing reads it
// after that.
type Config struct {
	InputDir   string
	Extensions []string // Accepted extensions, exact match, no leading dot.
	MinSize    uint64   // Files whose length is <= MinSize are skipped.
	Width      int
	Height     int
	Quality    int // 1..5, see policy.AlgorithmFor.
	Verbose    bool

	Workers     int  // 0 means runtime.NumCPU().
	JPEGQuality int  // Encoder quality for JPEG output.
	Plain       bool // Disable the interactive progress UI.
	FailOnError bool // Exit non-zero when any file failed.
}

// Defaults returns a Config populated with the documented defaults.
func Defaults() Config {
	return Config{
		MinSize:     DefaultMinSize,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Quality:     DefaultQuality,
		JPEGQuality: DefaultJPEGQuality,
	}
}

// ValidationError lists every problem found in a Config.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Validate checks c and returns the Settings snapshot the pipeline runs on.
// All problems are reported together; a non-nil error is always a
// *ValidationError.
func (c Config) Validate() (Settings, error) {
	var problems []string

	if strings.TrimSpace(c.InputDir) == "" {
		problems = append(problems, "input directory is required")
	}

	exts := make(map[string]struct{}, len(c.Extensions))
	for _, ext := range c.Extensions {
		if ext == "" {
			continue
		}
		exts[ext] = struct{}{}
	}
	if len(exts) == 0 {
		problems = append(problems, "at least one extension is required (-f)")
	}

	if c.Width <= 0 {
		problems = append(problems, fmt.Sprintf("width must be positive, got %d", c.Width))
	}
	if c.Height <= 0 {
		problems = append(problems, fmt.Sprintf("height must be positive, got %d", c.Height))
	}

	algo, err := policy.AlgorithmFor(c.Quality)
	if err != nil {
		problems = append(problems, err.Error())
	}

	if c.Workers < 0 {
		problems = append(problems, fmt.Sprintf("workers must not be negative, got %d", c.Workers))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		problems = append(problems, fmt.Sprintf("jpeg quality must be between 1-100, got %d", c.JPEGQuality))
	}

	if len(problems) > 0 {
		return Settings{}, &ValidationError{Problems: problems}
	}

	workers := c.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	return Settings{
		InputDir:    c.InputDir,
		MinSize:     c.MinSize,
		Width:       c.Width,
		Height:      c.Height,
		Algorithm:   algo,
		Verbose:     c.Verbose,
		Workers:     workers,
		JPEGQuality: c.JPEGQuality,
		extensions:  exts,
		valid:       true,
	}, nil
}

// IsValidation reports whether err came from [Config.Validate].
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
