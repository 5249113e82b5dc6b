package image

import (
	"context"
	"fmt"
	stdimage "image"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/image-filter/internal/model"
	"github.com/aliskhannn/image-filter/internal/storage"
)

// imageStore defines the interface for the task image store.
type imageStore interface {
	Open(ctx context.Context, taskID, imageID string) (io.ReadCloser, error)
	Store(ctx context.Context, taskID string, img stdimage.Image) (string, error)
}

// processor defines the interface for applying filters to stored images.
type processor interface {
	Apply(ctx context.Context, op model.Operation, req model.Request) (model.FilterResult, error)
}

// producer defines the interface for publishing sweep requests to a
// message broker (e.g., Kafka).
type producer interface {
	Produce(ctx context.Context, req model.SweepRequest) error
}

// sweeper defines the interface for running a garbage collection pass.
type sweeper interface {
	Sweep(ctx context.Context) ([]string, error)
}

// Service provides business logic for image operations.
type Service struct {
	store     imageStore
	processor processor
	producer  producer
	sweeper   sweeper
}

// NewService creates a new Service. p may be nil, in which case sweep
// requests run in-process on sw.
func NewService(store imageStore, proc processor, p producer, sw sweeper) *Service {
	return &Service{store: store, processor: proc, producer: p, sweeper: sw}
}

// Upload decodes the uploaded image and stores it as the first image of a
// new task. The bytes are always re-encoded, never stored verbatim.
func (s *Service) Upload(ctx context.Context, r io.Reader) (model.UploadResult, error) {
	img, err := storage.Decode(r)
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("upload: %w", err)
	}

	taskID := storage.NewID()
	id, err := s.store.Store(ctx, taskID, img)
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("upload: failed to store image: %w", err)
	}

	return model.UploadResult{Image: model.ImageID{TaskID: taskID, ID: id}}, nil
}

// Apply runs op on a stored image.
func (s *Service) Apply(ctx context.Context, op model.Operation, req model.Request) (model.FilterResult, error) {
	res, err := s.processor.Apply(ctx, op, req)
	if err != nil {
		return model.FilterResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

// Open returns the encoded bytes of a stored image.
func (s *Service) Open(ctx context.Context, taskID, imageID string) (io.ReadCloser, error) {
	return s.store.Open(ctx, taskID, imageID)
}

// RequestSweep asks the garbage collector to run now. With a producer the
// request is queued and handled by the consumer; without one the sweep
// runs before returning.
func (s *Service) RequestSweep(ctx context.Context) (uuid.UUID, error) {
	req := model.SweepRequest{ID: uuid.New(), RequestedAt: time.Now().UTC()}

	if s.producer != nil {
		if err := s.producer.Produce(ctx, req); err != nil {
			return uuid.Nil, fmt.Errorf("sweep: failed to enqueue request: %w", err)
		}
		return req.ID, nil
	}

	removed, err := s.sweeper.Sweep(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("sweep: %w", err)
	}

	zlog.Logger.Info().
		Str("request_id", req.ID.String()).
		Int("removed", len(removed)).
		Msg("sweep done")

	return req.ID, nil
}
