package file

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/image-filter/internal/storage"
)

// gradientImage creates an image with a smooth gradient, which survives
// JPEG compression with little error.
func gradientImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func meanAbsDiff(t *testing.T, a, b image.Image) float64 {
	t.Helper()
	require.Equal(t, a.Bounds().Size(), b.Bounds().Size())

	var sum float64
	ab, bb := a.Bounds(), b.Bounds()
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			r1, g1, b1, _ := a.At(ab.Min.X+x, ab.Min.Y+y).RGBA()
			r2, g2, b2, _ := b.At(bb.Min.X+x, bb.Min.Y+y).RGBA()
			sum += absDiff(r1>>8, r2>>8) + absDiff(g1>>8, g2>>8) + absDiff(b1>>8, b2>>8)
		}
	}
	return sum / float64(3*ab.Dx()*ab.Dy())
}

func absDiff(a, b uint32) float64 {
	if a > b {
		return float64(a - b)
	}
	return float64(b - a)
}

func TestResolvePath_Deterministic(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist")
	s := NewStorage(root, 0)

	p1 := s.ResolvePath("task", "image")
	p2 := s.ResolvePath("task", "image")

	require.Equal(t, p1, p2)
	require.Equal(t, filepath.Join(root, "task", "image.jpg"), p1)
	require.NotEqual(t, p1, s.ResolvePath("task", "other"))
	require.NotEqual(t, p1, s.ResolvePath("other", "image"))

	_, err := os.Stat(root)
	require.True(t, os.IsNotExist(err), "ResolvePath must not touch the filesystem")
}

func TestStoreLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStorage(t.TempDir(), 95)
	taskID := storage.NewID()
	src := gradientImage(64, 48)

	id, err := s.Store(ctx, taskID, src)
	require.NoError(t, err)
	require.True(t, storage.ValidID(id))

	got, err := s.Load(ctx, taskID, id)
	require.NoError(t, err)
	require.Equal(t, src.Bounds().Size(), got.Bounds().Size())
	require.Less(t, meanAbsDiff(t, src, got), 4.0)
}

func TestStore_FreshIDs(t *testing.T) {
	ctx := context.Background()
	s := NewStorage(t.TempDir(), 0)
	taskID := storage.NewID()
	img := gradientImage(8, 8)

	id1, err := s.Store(ctx, taskID, img)
	require.NoError(t, err)
	id2, err := s.Store(ctx, taskID, img)
	require.NoError(t, err)

	require.NotEqual(t, id1, id2)
}

func TestStore_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewStorage(root, 0)
	taskID := storage.NewID()

	id, err := s.Store(ctx, taskID, gradientImage(8, 8))
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(root, taskID))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, id+".jpg", entries[0].Name())
}

func TestStore_InvalidTaskID(t *testing.T) {
	s := NewStorage(t.TempDir(), 0)

	_, err := s.Store(context.Background(), "../escape", gradientImage(4, 4))
	require.Error(t, err)
}

func TestLoad_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewStorage(t.TempDir(), 0)

	_, err := s.Load(ctx, storage.NewID(), storage.NewID())
	require.ErrorIs(t, err, storage.ErrImageNotFound)

	_, err = s.Load(ctx, "../../etc", "passwd")
	require.ErrorIs(t, err, storage.ErrImageNotFound)
}

func TestLoad_DecodeError(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewStorage(root, 0)
	taskID, imageID := storage.NewID(), storage.NewID()

	require.NoError(t, os.MkdirAll(filepath.Join(root, taskID), 0o755))
	require.NoError(t, os.WriteFile(s.ResolvePath(taskID, imageID), []byte("not an image"), 0o644))

	_, err := s.Load(ctx, taskID, imageID)
	require.ErrorIs(t, err, storage.ErrDecode)
}

func TestTasks(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewStorage(root, 0)

	tasks, err := NewStorage(filepath.Join(root, "missing"), 0).Tasks(ctx)
	require.NoError(t, err)
	require.Empty(t, tasks)

	busy := storage.NewID()
	for i := 0; i < 2; i++ {
		_, err := s.Store(ctx, busy, gradientImage(4, 4))
		require.NoError(t, err)
	}
	empty := storage.NewID()
	require.NoError(t, os.MkdirAll(filepath.Join(root, empty), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o644))

	tasks, err = s.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	byID := map[string]storage.TaskInfo{}
	for _, ti := range tasks {
		byID[ti.ID] = ti
	}
	require.Equal(t, 2, byID[busy].Files)
	require.WithinDuration(t, time.Now(), byID[busy].ModTime, time.Minute)
	require.Equal(t, 0, byID[empty].Files)
	require.True(t, byID[empty].ModTime.IsZero())
}

func TestRemoveTask(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewStorage(root, 0)
	taskID := storage.NewID()

	id, err := s.Store(ctx, taskID, gradientImage(4, 4))
	require.NoError(t, err)

	require.NoError(t, s.RemoveTask(ctx, taskID))
	_, err = s.Load(ctx, taskID, id)
	require.ErrorIs(t, err, storage.ErrImageNotFound)

	require.Error(t, s.RemoveTask(ctx, ".."))
	require.Error(t, s.RemoveTask(ctx, "a/b"))
}
