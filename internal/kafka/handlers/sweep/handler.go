package sweep

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/image-filter/internal/model"
)

// sweeper defines the interface for running a garbage collection pass.
type sweeper interface {
	Sweep(ctx context.Context) ([]string, error)
}

// Handler handles Kafka messages requesting an immediate sweep.
type Handler struct {
	sweeper sweeper
}

// NewHandler creates a new handler with the given sweeper.
func NewHandler(s sweeper) *Handler {
	return &Handler{sweeper: s}
}

// Handle unmarshals a sweep request and runs a sweep.
func (h *Handler) Handle(ctx context.Context, msg kafka.Message) error {
	var req model.SweepRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		return fmt.Errorf("unmarshal sweep request: %w", err)
	}

	removed, err := h.sweeper.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("sweep %s: %w", req.ID, err)
	}

	zlog.Logger.Info().
		Str("request_id", req.ID.String()).
		Time("requested_at", req.RequestedAt).
		Int("removed", len(removed)).
		Msg("sweep request handled")

	return nil
}
