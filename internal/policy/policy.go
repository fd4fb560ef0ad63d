// Package policy decides whether an image needs shrinking and which
// resampling kernel to shrink it with.
package policy

import (
	"errors"
	"fmt"
	"math"

	"github.com/disintegration/imaging"
)

// ErrQuality is returned for quality levels outside 1..5.
var ErrQuality = errors.New("quality must be between 1-5")

const (
	MinQuality = 1
	MaxQuality = 5
)

// Algorithm is a named resampling kernel.
type Algorithm struct {
	Name   string
	Filter imaging.ResampleFilter
}

func (a Algorithm) String() string { return a.Name }

var algorithms = [...]Algorithm{
	{Name: "NearestNeighbor", Filter: imaging.NearestNeighbor},
	{Name: "Triangle", Filter: imaging.Linear},
	{Name: "CatmullRom", Filter: imaging.CatmullRom},
	{Name: "Gaussian", Filter: imaging.Gaussian},
	{Name: "Lanczos3", Filter: imaging.Lanczos},
}

// AlgorithmFor maps a quality level to its kernel:
// 1 nearest neighbor, 2 triangle, 3 Catmull-Rom, 4 Gaussian, 5 Lanczos3.
func AlgorithmFor(quality int) (Algorithm, error) {
	if quality < MinQuality || quality > MaxQuality {
		return Algorithm{}, fmt.Errorf("%w, got %d", ErrQuality, quality)
	}
	return algorithms[quality-1], nil
}

// ShouldResize reports whether an image of the actual size exceeds either
// target bound.
func ShouldResize(actualW, actualH, targetW, targetH int) bool {
	return actualW > targetW || actualH > targetH
}

// FitDimensions returns the size an actualW x actualH image takes when
// scaled to fit inside targetW x targetH with its aspect ratio kept.
func FitDimensions(actualW, actualH, targetW, targetH int) (int, int) {
	if actualW <= 0 || actualH <= 0 || targetW <= 0 || targetH <= 0 {
		return 0, 0
	}
	if !ShouldResize(actualW, actualH, targetW, targetH) {
		return actualW, actualH
	}

	srcRatio := float64(actualW) / float64(actualH)
	boxRatio := float64(targetW) / float64(targetH)

	var w, h int
	if srcRatio > boxRatio {
		w = targetW
		h = int(math.Max(1, float64(targetW)/srcRatio))
	} else {
		h = targetH
		w = int(math.Max(1, float64(targetH)*srcRatio))
	}
	return w, h
}
