package model

import (
	"time"

	"github.com/google/uuid"
)

// SweepRequest asks the garbage collector to run a sweep now.
type SweepRequest struct {
	ID          uuid.UUID `json:"id"`
	RequestedAt time.Time `json:"requested_at"`
}
