package image

import (
	"bytes"
	"context"
	"errors"
	stdimage "image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/image-filter/internal/model"
	"github.com/aliskhannn/image-filter/internal/storage"
	"github.com/aliskhannn/image-filter/internal/storage/file"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

type fakeProcessor struct {
	op  model.Operation
	req model.Request
	err error
}

func (p *fakeProcessor) Apply(_ context.Context, op model.Operation, req model.Request) (model.FilterResult, error) {
	p.op, p.req = op, req
	return model.FilterResult{Image: model.ImageRef{TaskID: req.TaskID, ID: "out"}}, p.err
}

type fakeProducer struct {
	sent []model.SweepRequest
	err  error
}

func (p *fakeProducer) Produce(_ context.Context, req model.SweepRequest) error {
	p.sent = append(p.sent, req)
	return p.err
}

type fakeSweeper struct {
	calls int
}

func (s *fakeSweeper) Sweep(context.Context) ([]string, error) {
	s.calls++
	return []string{"a"}, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUpload(t *testing.T) {
	store := file.NewStorage(t.TempDir(), 95)
	s := NewService(store, &fakeProcessor{}, nil, &fakeSweeper{})

	res, err := s.Upload(context.Background(), bytes.NewReader(pngBytes(t, 20, 10)))
	require.NoError(t, err)
	require.True(t, storage.ValidID(res.Image.TaskID))
	require.True(t, storage.ValidID(res.Image.ID))

	// Stored as JPEG whatever the upload format.
	rc, err := s.Open(context.Background(), res.Image.TaskID, res.Image.ID)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, []byte{0xff, 0xd8}, data[:2])
}

func TestUpload_NotAnImage(t *testing.T) {
	s := NewService(file.NewStorage(t.TempDir(), 95), &fakeProcessor{}, nil, &fakeSweeper{})

	_, err := s.Upload(context.Background(), strings.NewReader("definitely not an image"))
	require.ErrorIs(t, err, storage.ErrDecode)
}

func TestApply(t *testing.T) {
	proc := &fakeProcessor{}
	s := NewService(file.NewStorage(t.TempDir(), 95), proc, nil, &fakeSweeper{})

	req := model.Request{TaskID: "t", ID: "i"}
	res, err := s.Apply(context.Background(), model.OpGrayscale, req)
	require.NoError(t, err)
	require.Equal(t, "out", res.Image.ID)
	require.Equal(t, model.OpGrayscale, proc.op)
	require.Equal(t, req, proc.req)

	proc.err = storage.ErrImageNotFound
	_, err = s.Apply(context.Background(), model.OpGrayscale, req)
	require.ErrorIs(t, err, storage.ErrImageNotFound)
}

func TestRequestSweep_Queued(t *testing.T) {
	prod := &fakeProducer{}
	sw := &fakeSweeper{}
	s := NewService(file.NewStorage(t.TempDir(), 95), &fakeProcessor{}, prod, sw)

	id, err := s.RequestSweep(context.Background())
	require.NoError(t, err)
	require.Len(t, prod.sent, 1)
	require.Equal(t, id, prod.sent[0].ID)
	require.Zero(t, sw.calls)

	prod.err = errors.New("broker down")
	_, err = s.RequestSweep(context.Background())
	require.Error(t, err)
}

func TestRequestSweep_InProcess(t *testing.T) {
	sw := &fakeSweeper{}
	s := NewService(file.NewStorage(t.TempDir(), 95), &fakeProcessor{}, nil, sw)

	_, err := s.RequestSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sw.calls)
}
