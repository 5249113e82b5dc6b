package file

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aliskhannn/image-filter/internal/storage"
)

// Storage is the local filesystem task image store. Every task is a flat
// directory under basePath holding <image_id>.jpg files.
type Storage struct {
	basePath string
	quality  int
}

// NewStorage creates a new Storage rooted at basePath. The directory is
// created lazily on the first write.
func NewStorage(basePath string, quality int) *Storage {
	return &Storage{basePath: basePath, quality: quality}
}

// ResolvePath returns the file path of an image. It does no I/O.
func (s *Storage) ResolvePath(taskID, imageID string) string {
	return filepath.Join(s.basePath, taskID, imageID+storage.Ext)
}

// Open returns the encoded bytes of a stored image.
func (s *Storage) Open(_ context.Context, taskID, imageID string) (io.ReadCloser, error) {
	if !storage.ValidID(taskID) || !storage.ValidID(imageID) {
		return nil, storage.ErrImageNotFound
	}

	f, err := os.Open(s.ResolvePath(taskID, imageID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.ErrImageNotFound
		}

		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	return f, nil
}

// Load decodes a stored image.
func (s *Storage) Load(ctx context.Context, taskID, imageID string) (image.Image, error) {
	f, err := s.Open(ctx, taskID, imageID)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return storage.Decode(f)
}

// Store encodes img under a freshly minted image id and returns that id.
// The file is written to a temporary name in the task directory and
// renamed into place, so a reader never sees a partial image.
func (s *Storage) Store(_ context.Context, taskID string, img image.Image) (string, error) {
	if !storage.ValidID(taskID) {
		return "", fmt.Errorf("invalid task id %q", taskID)
	}

	dir := filepath.Join(s.basePath, taskID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if err := storage.Encode(tmp, img, s.quality); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to sync image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close image: %w", err)
	}

	id := storage.NewID()
	dst := s.ResolvePath(taskID, id)
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("failed to save file %s: %w", dst, err)
	}

	return id, nil
}

// Tasks lists every task directory with its file count and newest
// modification time. A missing root means there are no tasks yet.
func (s *Storage) Tasks(_ context.Context) ([]storage.TaskInfo, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]storage.TaskInfo, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		info, err := s.taskInfo(e.Name())
		if err != nil {
			// The directory may have been removed by a concurrent sweep.
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		tasks = append(tasks, info)
	}

	return tasks, nil
}

func (s *Storage) taskInfo(taskID string) (storage.TaskInfo, error) {
	info := storage.TaskInfo{ID: taskID}

	files, err := os.ReadDir(filepath.Join(s.basePath, taskID))
	if err != nil {
		return info, fmt.Errorf("failed to list task %s: %w", taskID, err)
	}

	for _, f := range files {
		fi, err := f.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return info, fmt.Errorf("failed to stat %s: %w", f.Name(), err)
		}

		info.Files++
		if fi.ModTime().After(info.ModTime) {
			info.ModTime = fi.ModTime()
		}
	}

	return info, nil
}

// RemoveTask deletes a task directory and everything in it.
func (s *Storage) RemoveTask(_ context.Context, taskID string) error {
	if taskID == "" || taskID == "." || taskID == ".." || filepath.Base(taskID) != taskID {
		return fmt.Errorf("invalid task id %q", taskID)
	}

	if err := os.RemoveAll(filepath.Join(s.basePath, taskID)); err != nil {
		return fmt.Errorf("failed to remove task %s: %w", taskID, err)
	}

	return nil
}
