// Package detector holds the region detectors behind the face and text
// operations. Each is constructed once at start-up and injected into the
// processor.
package detector

import (
	"context"
	"errors"
	"image"
)

// ErrUnavailable is returned by detectors compiled without their native
// backend.
var ErrUnavailable = errors.New("detector is not available in this build")

// Region is one detected area of an image.
type Region struct {
	Box        image.Rectangle
	Text       string  // recognised text, text detectors only
	Confidence float64 // 0..1, zero when the backend does not report one
}

// Detector finds regions of interest in an image.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]Region, error)
}

// Clip drops empty boxes and clips the rest to bounds.
func Clip(regions []Region, bounds image.Rectangle) []Region {
	out := make([]Region, 0, len(regions))
	for _, r := range regions {
		r.Box = r.Box.Intersect(bounds)
		if r.Box.Empty() {
			continue
		}
		out = append(out, r)
	}
	return out
}
