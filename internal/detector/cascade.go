//go:build gocv

package detector

import (
	"context"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// CascadeDetector finds faces with an OpenCV Haar cascade.
type CascadeDetector struct {
	mu           sync.Mutex // CascadeClassifier is not safe for concurrent use
	classifier   gocv.CascadeClassifier
	scaleFactor  float64
	minNeighbors int
}

// NewCascadeDetector loads the cascade at path.
func NewCascadeDetector(path string) (*CascadeDetector, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, fmt.Errorf("failed to load cascade %s", path)
	}

	return &CascadeDetector{
		classifier:   classifier,
		scaleFactor:  1.3,
		minNeighbors: 5,
	}, nil
}

// Detect returns one region per detected face.
func (d *CascadeDetector) Detect(_ context.Context, img image.Image) ([]Region, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorRGBToGray)

	d.mu.Lock()
	rects := d.classifier.DetectMultiScaleWithParams(gray, d.scaleFactor, d.minNeighbors, 0, image.Point{}, image.Point{})
	d.mu.Unlock()

	origin := img.Bounds().Min
	regions := make([]Region, 0, len(rects))
	for _, r := range rects {
		regions = append(regions, Region{Box: r.Add(origin)})
	}

	return regions, nil
}

// Close releases the classifier.
func (d *CascadeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.classifier.Close()
}
