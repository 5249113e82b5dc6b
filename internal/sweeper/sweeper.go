// Package sweeper removes abandoned tasks from the image store.
package sweeper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/image-filter/internal/storage"
)

// taskStore defines the garbage-collection view of the image store.
type taskStore interface {
	Tasks(ctx context.Context) ([]storage.TaskInfo, error)
	RemoveTask(ctx context.Context, taskID string) error
}

// Sweeper deletes tasks that have not been written to for longer than the
// retention window. Empty tasks are always deleted.
type Sweeper struct {
	store     taskStore
	retention time.Duration
	now       func() time.Time
	mu        sync.Mutex // one sweep at a time
}

// New creates a new Sweeper.
func New(store taskStore, retention time.Duration) *Sweeper {
	return &Sweeper{store: store, retention: retention, now: time.Now}
}

// Sweep runs one pass and returns the ids of the removed tasks. A failure
// to remove one task is logged and does not stop the pass.
func (s *Sweeper) Sweep(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.store.Tasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	now := s.now()
	removed := make([]string, 0)
	for _, t := range tasks {
		if t.Files > 0 && now.Sub(t.ModTime) <= s.retention {
			continue
		}

		if err := s.store.RemoveTask(ctx, t.ID); err != nil {
			zlog.Logger.Err(err).Str("task_id", t.ID).Msg("failed to remove task")
			continue
		}
		removed = append(removed, t.ID)
	}

	if len(removed) > 0 {
		zlog.Logger.Info().Strs("tasks", removed).Msg("removed expired tasks")
	}

	return removed, nil
}

// Run sweeps every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration, wg *sync.WaitGroup) {
	defer wg.Done()

	zlog.Logger.Info().
		Dur("interval", interval).
		Dur("retention", s.retention).
		Msg("starting sweeper")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zlog.Logger.Info().Msg("shutdown signal received, stopping sweeper")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				zlog.Logger.Err(err).Msg("sweep failed")
			}
		}
	}
}
