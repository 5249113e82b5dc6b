// Package storage holds what the task image store backends share: the
// identifier rules, the on-disk image codec and the error kinds.
package storage

import (
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"  // accept BMP uploads
	_ "golang.org/x/image/tiff" // accept TIFF uploads
	_ "golang.org/x/image/webp" // accept WebP uploads
)

// Ext is the extension of every stored image. Images are always re-encoded
// as JPEG, whatever format they arrived in.
const Ext = ".jpg"

// DefaultJPEGQuality is used when a backend is configured with quality <= 0.
const DefaultJPEGQuality = 95

var (
	// ErrImageNotFound is returned when a (task_id, image_id) pair does not
	// address a stored image.
	ErrImageNotFound = errors.New("image not found")

	// ErrDecode is returned when bytes cannot be decoded as an image.
	ErrDecode = errors.New("failed to decode image")
)

// TaskInfo describes one task directory for the garbage collector.
type TaskInfo struct {
	ID      string
	Files   int
	ModTime time.Time // newest modification time among the task's files
}

// ValidID reports whether id is a well-formed identifier. Identifiers are
// used as path elements, so anything else is rejected before touching the
// backend.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// NewID mints a fresh identifier for a task or an image.
func NewID() string {
	return uuid.NewString()
}

// Decode reads an image in any registered format.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return img, nil
}

// Encode writes img in the stored format.
func Encode(w io.Writer, img image.Image, quality int) error {
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}

	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
}
