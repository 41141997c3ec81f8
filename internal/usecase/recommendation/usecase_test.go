package recommendation

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"p2plend-backend/internal/domain/amortization"
	"p2plend-backend/internal/domain/profile"
	"p2plend-backend/internal/domain/store"
	"p2plend-backend/internal/testutil/profilemock"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = "uuuuuuuuuuuuuuuuuuuuuuuuuuuuuuuu"

func scored(score int) *profilemock.Repo {
	return profilemock.Static(profile.Profile{UserID: userID, CreditScore: score})
}

func TestRecommend_BandAndPoint(t *testing.T) {
	cases := []struct {
		name   string
		score  int
		in     Input
		band   string
		rng    string
		expect float64
	}{
		{"mid band B borrower", 720, Input{Role: "borrower", Amount: 8000, TermMonths: 25}, "B", "1.6-1.9", 1.77},
		{"band A borrower short term", 880, Input{Role: "borrower", Amount: 8000, TermMonths: 12}, "A", "1.2-1.5", 1.38},
		{"band A investor asks more", 880, Input{Role: "investor", Amount: 8000, TermMonths: 12}, "A", "1.2-1.5", 1.44},
		{"large amount", 720, Input{Role: "borrower", Amount: 60000, TermMonths: 25}, "B", "1.6-1.9", 1.82},
		{"clamped to band max", 500, Input{Role: "borrower", Amount: 8000, TermMonths: 25}, "C", "2.0-2.5", 2.5},
		{"poor score", 300, Input{Role: "borrower", Amount: 8000, TermMonths: 12}, "D", "2.6-3.5", 2.96},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := NewUsecase(scored(tc.score), nil, 0, amortization.DefaultFeePercent)
			tc.in.UserID = userID

			rec, err := uc.Recommend(context.Background(), tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.band, rec.Band)
			assert.Equal(t, tc.rng, rec.SuggestedRate)
			assert.InDelta(t, tc.expect, rec.Rate, 1e-9)
			assert.True(t, rec.Range.Contains(rec.Rate))
			assert.Equal(t, tc.score, rec.CreditScore)
		})
	}
}

func TestRecommend_NoProfileUsesDefaultScore(t *testing.T) {
	uc := NewUsecase(&profilemock.Repo{}, nil, 0, amortization.DefaultFeePercent)
	rec, err := uc.Recommend(context.Background(), Input{UserID: userID, Role: "borrower", Amount: 8000, TermMonths: 25})
	require.NoError(t, err)
	assert.Equal(t, DefaultScore, rec.CreditScore)
	assert.Equal(t, "C", rec.Band)
}

func TestRecommend_StoreErrorPropagates(t *testing.T) {
	repo := &profilemock.Repo{GetByUserIDFn: func(context.Context, string) (*profile.Profile, error) {
		return nil, store.Unavailable("get profile", errors.New("timeout"))
	}}
	uc := NewUsecase(repo, nil, 0, amortization.DefaultFeePercent)
	_, err := uc.Recommend(context.Background(), Input{UserID: userID, Role: "borrower", Amount: 8000, TermMonths: 25})
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestRecommend_InvalidParameters(t *testing.T) {
	uc := NewUsecase(scored(700), nil, 0, amortization.DefaultFeePercent)
	_, err := uc.Recommend(context.Background(), Input{UserID: userID, Role: "borrower", Amount: 0, TermMonths: 25})
	assert.ErrorIs(t, err, amortization.ErrInvalidLoanParameters)
	_, err = uc.Recommend(context.Background(), Input{UserID: userID, Role: "borrower", Amount: 100, TermMonths: 0})
	assert.ErrorIs(t, err, amortization.ErrInvalidLoanParameters)
}

func TestRecommend_CachesInRedis(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	calls := 0
	repo := &profilemock.Repo{GetByUserIDFn: func(context.Context, string) (*profile.Profile, error) {
		calls++
		return &profile.Profile{UserID: userID, CreditScore: 720}, nil
	}}
	uc := NewUsecase(repo, rdb, 10*time.Minute, amortization.DefaultFeePercent)
	in := Input{UserID: userID, Role: "borrower", Amount: 8000, TermMonths: 25}

	first, err := uc.Recommend(context.Background(), in)
	require.NoError(t, err)
	second, err := uc.Recommend(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, 10*time.Minute, s.TTL(cacheKey(in)))

	// another role is another key
	in.Role = "investor"
	_, err = uc.Recommend(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRecommend_CacheDownStillAnswers(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	s.Close()

	uc := NewUsecase(scored(720), rdb, time.Minute, amortization.DefaultFeePercent)
	rec, err := uc.Recommend(context.Background(), Input{UserID: userID, Role: "borrower", Amount: 8000, TermMonths: 25})
	require.NoError(t, err)
	assert.Equal(t, "B", rec.Band)
}

func TestRecommend_OverflowingAmountIsAnError(t *testing.T) {
	uc := NewUsecase(scored(720), nil, 0, amortization.DefaultFeePercent)
	_, err := uc.Recommend(context.Background(), Input{UserID: userID, Role: "borrower", Amount: math.MaxFloat64, TermMonths: 360})
	assert.ErrorIs(t, err, amortization.ErrInvalidLoanParameters)
}
