package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expirerFunc func(ctx context.Context, limit int) (int, error)

func (f expirerFunc) ExpireStale(ctx context.Context, limit int) (int, error) { return f(ctx, limit) }

func TestNewExpirySweeper_RejectsBadCron(t *testing.T) {
	_, err := NewExpirySweeper("every now and then", expirerFunc(nil))
	assert.Error(t, err)
}

func TestNext(t *testing.T) {
	s, err := NewExpirySweeper("*/5 * * * *", expirerFunc(nil))
	require.NoError(t, err)

	at := time.Date(2025, 9, 6, 12, 3, 0, 0, time.UTC)
	next, err := s.Next(at)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 6, 12, 5, 0, 0, time.UTC), next)

	next, err = s.Next(next)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 6, 12, 10, 0, 0, time.UTC), next)
}

func TestSweepOnce_DrainsBatches(t *testing.T) {
	remaining := 250
	calls := 0
	s, err := NewExpirySweeper("@hourly", expirerFunc(func(_ context.Context, limit int) (int, error) {
		calls++
		n := min(limit, remaining)
		remaining -= n
		return n, nil
	}))
	require.NoError(t, err)

	total, err := s.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 250, total)
	assert.Equal(t, 3, calls)
}

func TestSweepOnce_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	s, err := NewExpirySweeper("@hourly", expirerFunc(func(context.Context, int) (int, error) {
		return 2, boom
	}))
	require.NoError(t, err)

	total, err := s.SweepOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, total)
}

func TestStart_ReturnsOnCancel(t *testing.T) {
	s, err := NewExpirySweeper("@yearly", expirerFunc(func(context.Context, int) (int, error) {
		t.Fatalf("no tick expected")
		return 0, nil
	}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
