package processor

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/aliskhannn/image-filter/internal/detector"
	"github.com/aliskhannn/image-filter/internal/model"
)

var (
	// ErrUnknownOperation is returned for an operation name with no filter.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrInvalidThreshold is returned for a threshold outside 0..255.
	ErrInvalidThreshold = errors.New("threshold must be between 0 and 255")
)

// imageStore defines the interface for the task image store.
// Images are loaded by (task, id) and every Store mints a fresh id.
type imageStore interface {
	Load(ctx context.Context, taskID, imageID string) (image.Image, error)
	Store(ctx context.Context, taskID string, img image.Image) (string, error)
}

// Processor applies named filters to stored images. Every filter writes
// its output as new images in the same task and never modifies its input.
type Processor struct {
	store imageStore
	faces detector.Detector
	texts detector.Detector
}

// New creates a new Processor with the given store and region detectors.
func New(store imageStore, faces, texts detector.Detector) *Processor {
	return &Processor{store: store, faces: faces, texts: texts}
}

// Apply runs op on the image addressed by req.
func (p *Processor) Apply(ctx context.Context, op model.Operation, req model.Request) (model.FilterResult, error) {
	switch op {
	case model.OpGrayscale:
		return p.grayscale(ctx, req)
	case model.OpThreshold:
		return p.threshold(ctx, req)
	case model.OpFaceDetection:
		return p.faceDetection(ctx, req)
	case model.OpTextDetection:
		return p.textDetection(ctx, req)
	case model.OpContourExtraction:
		return p.contourExtraction(ctx, req)
	default:
		return model.FilterResult{}, fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}
}

func (p *Processor) load(ctx context.Context, req model.Request) (image.Image, error) {
	img, err := p.store.Load(ctx, req.TaskID, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	return img, nil
}

// save stores img in the request's task and returns a reference covering
// the region r of the source image.
func (p *Processor) save(ctx context.Context, taskID string, img image.Image, r image.Rectangle) (model.ImageRef, error) {
	id, err := p.store.Store(ctx, taskID, img)
	if err != nil {
		return model.ImageRef{}, fmt.Errorf("failed to store image: %w", err)
	}

	return model.ImageRef{
		TaskID: taskID,
		ID:     id,
		X:      r.Min.X,
		Y:      r.Min.Y,
		Width:  r.Dx(),
		Height: r.Dy(),
	}, nil
}

// whole returns the bounds of img moved to the origin.
func whole(img image.Image) image.Rectangle {
	b := img.Bounds()
	return image.Rect(0, 0, b.Dx(), b.Dy())
}
