package sweep

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/image-filter/internal/model"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

type fakeSweeper struct {
	calls int
	err   error
}

func (s *fakeSweeper) Sweep(context.Context) ([]string, error) {
	s.calls++
	return nil, s.err
}

func message(t *testing.T) kafka.Message {
	t.Helper()

	data, err := json.Marshal(model.SweepRequest{ID: uuid.New(), RequestedAt: time.Now()})
	require.NoError(t, err)
	return kafka.Message{Value: data}
}

func TestHandle(t *testing.T) {
	s := &fakeSweeper{}

	require.NoError(t, NewHandler(s).Handle(context.Background(), message(t)))
	require.Equal(t, 1, s.calls)
}

func TestHandle_BadMessage(t *testing.T) {
	s := &fakeSweeper{}

	err := NewHandler(s).Handle(context.Background(), kafka.Message{Value: []byte("{")})
	require.Error(t, err)
	require.Zero(t, s.calls)
}

func TestHandle_SweepError(t *testing.T) {
	boom := errors.New("boom")
	s := &fakeSweeper{err: boom}

	err := NewHandler(s).Handle(context.Background(), message(t))
	require.ErrorIs(t, err, boom)
}
