package jobs

import (
	"context"
	"fmt"
	"time"

	"p2plend-backend/internal/logger"

	"github.com/adhocore/gronx"
	"github.com/sirupsen/logrus"
)

// Expirer persists the expiry of open negotiations past their deadline.
type Expirer interface {
	ExpireStale(ctx context.Context, limit int) (int, error)
}

const defaultBatch = 100

// ExpirySweeper reconciles stored statuses with the clock on a cron schedule.
// Reads already derive expiry on their own; this only makes it durable.
type ExpirySweeper struct {
	expr    string
	expirer Expirer
	batch   int
	now     func() time.Time
	log     *logrus.Entry
}

// NewExpirySweeper validates expr (standard 5-field cron or @-tags).
func NewExpirySweeper(expr string, e Expirer) (*ExpirySweeper, error) {
	if !gronx.New().IsValid(expr) {
		return nil, fmt.Errorf("invalid cron expression %q", expr)
	}
	return &ExpirySweeper{
		expr:    expr,
		expirer: e,
		batch:   defaultBatch,
		now:     time.Now,
		log:     logger.Log.WithField("job", "expiry_sweeper"),
	}, nil
}

// Next is the first tick strictly after t.
func (s *ExpirySweeper) Next(t time.Time) (time.Time, error) {
	return gronx.NextTickAfter(s.expr, t, false)
}

// Start blocks until ctx is done, sweeping on every tick.
func (s *ExpirySweeper) Start(ctx context.Context) {
	s.log.WithField("cron", s.expr).Info("starting")
	for {
		next, err := s.Next(s.now())
		if err != nil {
			s.log.WithError(err).Error("cannot compute next tick, stopping")
			return
		}
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("stopping")
			return
		case <-timer.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.log.WithError(err).Warn("sweep finished with errors")
			}
		}
	}
}

// SweepOnce drains stale negotiations batch by batch and returns the total expired.
func (s *ExpirySweeper) SweepOnce(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := s.expirer.ExpireStale(ctx, s.batch)
		total += n
		if err != nil {
			return total, err
		}
		if n < s.batch {
			break
		}
	}
	if total > 0 {
		s.log.WithField("expired", total).Info("expired stale negotiations")
	}
	return total, nil
}
