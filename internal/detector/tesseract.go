//go:build tesseract

package detector

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractDetector finds words and recognises their text with Tesseract.
type TesseractDetector struct {
	language      string
	minConfidence float64 // words below this Tesseract confidence (0..100) are dropped
}

// NewTesseractDetector creates a detector for the given Tesseract language.
func NewTesseractDetector(language string, minConfidence int) *TesseractDetector {
	return &TesseractDetector{language: language, minConfidence: float64(minConfidence)}
}

// Detect returns one region per recognised word. A client is created per
// call because gosseract clients are not safe for concurrent use.
func (d *TesseractDetector) Detect(_ context.Context, img image.Image) ([]Region, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(d.language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	origin := img.Bounds().Min
	regions := make([]Region, 0, len(boxes))
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" || box.Confidence < d.minConfidence {
			continue
		}
		regions = append(regions, Region{
			Box:        box.Box.Add(origin),
			Text:       word,
			Confidence: box.Confidence / 100.0,
		})
	}

	return regions, nil
}
