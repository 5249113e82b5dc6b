//go:build !gocv

package detector

import (
	"context"
	"image"
)

// CascadeDetector is a stub used when the binary is built without OpenCV.
type CascadeDetector struct{}

// NewCascadeDetector returns a detector that always reports ErrUnavailable.
func NewCascadeDetector(_ string) (*CascadeDetector, error) {
	return &CascadeDetector{}, nil
}

// Detect returns ErrUnavailable.
func (d *CascadeDetector) Detect(_ context.Context, _ image.Image) ([]Region, error) {
	return nil, ErrUnavailable
}

// Close does nothing.
func (d *CascadeDetector) Close() error { return nil }
