//go:build !tesseract

package detector

import (
	"context"
	"image"
)

// TesseractDetector is a stub used when the binary is built without
// Tesseract.
type TesseractDetector struct{}

// NewTesseractDetector returns a detector that always reports ErrUnavailable.
func NewTesseractDetector(_ string, _ int) *TesseractDetector {
	return &TesseractDetector{}
}

// Detect returns ErrUnavailable.
func (d *TesseractDetector) Detect(_ context.Context, _ image.Image) ([]Region, error) {
	return nil, ErrUnavailable
}
