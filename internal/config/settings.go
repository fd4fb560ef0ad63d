package config

import (
	"sort"

	"imgresize/internal/policy"
)

// Settings is the validated, read-only snapshot of a run. Build it with
// [Config.Validate]; the zero value accepts no extensions.
type Settings struct {
	InputDir    string
	MinSize     uint64
	Width       int
	Height      int
	Algorithm   policy.Algorithm
	Verbose     bool
	Workers     int
	JPEGQuality int

	extensions map[string]struct{}
	valid      bool
}

// AcceptsExtension reports whether ext (without the dot) is in the filter.
// Matching is exact and case-sensitive.
func (s Settings) AcceptsExtension(ext string) bool {
	_, ok := s.extensions[ext]
	return ok
}

// Extensions returns the accepted extensions, sorted.
func (s Settings) Extensions() []string {
	out := make([]string, 0, len(s.extensions))
	for ext := range s.extensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Valid reports whether s was produced by a successful validation.
func (s Settings) Valid() bool {
	return s.valid
}
