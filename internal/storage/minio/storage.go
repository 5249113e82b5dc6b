package minio

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/aliskhannn/image-filter/internal/storage"
)

const noSuchKey = "NoSuchKey"

// Storage is an S3-compatible task image store backed by MinIO. Object
// keys follow the local layout: <task_id>/<image_id>.jpg.
type Storage struct {
	client     *minio.Client
	bucketName string
	quality    int
}

// NewStorage creates a new Storage instance connected to the specified MinIO server.
// If the bucket does not exist, it will be created automatically.
func NewStorage(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, useSSL bool, quality int) (*Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Storage{
		client:     client,
		bucketName: bucketName,
		quality:    quality,
	}, nil
}

// ResolvePath returns the object key of an image.
func (s *Storage) ResolvePath(taskID, imageID string) string {
	return path.Join(taskID, imageID+storage.Ext)
}

// Open returns a reader over the stored object.
func (s *Storage) Open(ctx context.Context, taskID, imageID string) (io.ReadCloser, error) {
	if !storage.ValidID(taskID) || !storage.ValidID(imageID) {
		return nil, storage.ErrImageNotFound
	}

	obj, err := s.client.GetObject(ctx, s.bucketName, s.ResolvePath(taskID, imageID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to load file: %w", err)
	}

	// GetObject is lazy; Stat surfaces a missing key.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == noSuchKey {
			return nil, storage.ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return obj, nil
}

// Load decodes a stored image.
func (s *Storage) Load(ctx context.Context, taskID, imageID string) (image.Image, error) {
	obj, err := s.Open(ctx, taskID, imageID)
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	return storage.Decode(obj)
}

// Store uploads img under a fresh image id. A PutObject is atomic, so no
// partially written object is ever visible.
func (s *Storage) Store(ctx context.Context, taskID string, img image.Image) (string, error) {
	if !storage.ValidID(taskID) {
		return "", fmt.Errorf("invalid task id %q", taskID)
	}

	buf := new(bytes.Buffer)
	if err := storage.Encode(buf, img, s.quality); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	id := storage.NewID()
	_, err := s.client.PutObject(ctx, s.bucketName, s.ResolvePath(taskID, id), buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return id, nil
}

// Tasks groups the bucket's objects by task prefix. Object stores have no
// empty directories, so every listed task has at least one file.
func (s *Storage) Tasks(ctx context.Context) ([]storage.TaskInfo, error) {
	byID := make(map[string]*storage.TaskInfo)
	order := make([]string, 0)

	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}

		taskID, _, ok := strings.Cut(obj.Key, "/")
		if !ok {
			continue
		}

		info, seen := byID[taskID]
		if !seen {
			info = &storage.TaskInfo{ID: taskID}
			byID[taskID] = info
			order = append(order, taskID)
		}

		info.Files++
		if obj.LastModified.After(info.ModTime) {
			info.ModTime = obj.LastModified
		}
	}

	tasks := make([]storage.TaskInfo, 0, len(order))
	for _, id := range order {
		tasks = append(tasks, *byID[id])
	}

	return tasks, nil
}

// RemoveTask deletes every object under the task prefix.
func (s *Storage) RemoveTask(ctx context.Context, taskID string) error {
	if taskID == "" || strings.Contains(taskID, "/") {
		return fmt.Errorf("invalid task id %q", taskID)
	}

	objects := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    taskID + "/",
		Recursive: true,
	})

	for obj := range objects {
		if obj.Err != nil {
			return fmt.Errorf("failed to list task %s: %w", taskID, obj.Err)
		}

		if err := s.client.RemoveObject(ctx, s.bucketName, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to remove %s: %w", obj.Key, err)
		}
	}

	return nil
}
