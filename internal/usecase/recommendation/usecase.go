package recommendation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"p2plend-backend/internal/domain/amortization"
	"p2plend-backend/internal/domain/profile"
	"p2plend-backend/internal/domain/rate"
	"p2plend-backend/internal/infrastructure/cache"
	"p2plend-backend/internal/logger"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DefaultScore is used for users without a profile.
const DefaultScore = 500

// band maps credit scores from Floor upward to a suggested monthly rate range.
type band struct {
	Name  string
	Floor int
	Ceil  int
	Range rate.Range
}

// bands are ordered best first. Better scores get cheaper money.
var bands = []band{
	{Name: "A", Floor: 800, Ceil: 1000, Range: rate.Between(1.2, 1.5)},
	{Name: "B", Floor: 650, Ceil: 800, Range: rate.Between(1.6, 1.9)},
	{Name: "C", Floor: 500, Ceil: 650, Range: rate.Between(2.0, 2.5)},
	{Name: "D", Floor: 0, Ceil: 500, Range: rate.Between(2.6, 3.5)},
}

func bandFor(score int) band {
	for _, b := range bands {
		if score >= b.Floor {
			return b
		}
	}
	return bands[len(bands)-1]
}

type Input struct {
	UserID     string
	Role       string
	Amount     float64
	TermMonths int
}

type Recommendation struct {
	UserID        string               `json:"user_id"`
	Role          string               `json:"role"`
	CreditScore   int                  `json:"credit_score"`
	Band          string               `json:"band"`
	SuggestedRate string               `json:"suggested_rate"`
	Range         rate.Range           `json:"range"`
	Rate          float64              `json:"rate"`
	Figures       amortization.Figures `json:"figures"`
}

type Usecase struct {
	profiles   profile.Repository
	cache      redis.Cmdable
	ttl        time.Duration
	feePercent float64
}

// NewUsecase builds the recommender. A nil cache disables caching.
func NewUsecase(profiles profile.Repository, c redis.Cmdable, ttl time.Duration, feePercent float64) *Usecase {
	return &Usecase{profiles: profiles, cache: c, ttl: ttl, feePercent: feePercent}
}

func cacheKey(in Input) string {
	return fmt.Sprintf("rec:v1:%s:%s:%s:%d", in.UserID, in.Role, decimal.NewFromFloat(in.Amount).String(), in.TermMonths)
}

// Recommend suggests a rate range for the user's score band and a point
// estimate inside it. Cache failures are logged and never fail the call.
func (u *Usecase) Recommend(ctx context.Context, in Input) (*Recommendation, error) {
	if in.Amount <= 0 {
		return nil, &amortization.InvalidLoanParametersError{Field: "principal", Value: in.Amount}
	}
	if in.TermMonths < 1 {
		return nil, &amortization.InvalidLoanParametersError{Field: "term_months", Value: float64(in.TermMonths)}
	}

	key := cacheKey(in)
	log := logger.Log.WithFields(logrus.Fields{"user_id": in.UserID, "role": in.Role, "action": "recommend"})
	if u.cache != nil {
		var hit Recommendation
		found, err := cache.GetJSON(ctx, u.cache, key, &hit)
		if err != nil {
			log.WithError(err).Warn("recommendation cache read failed")
		}
		if found {
			return &hit, nil
		}
	}

	score := DefaultScore
	p, err := u.profiles.GetByUserID(ctx, in.UserID)
	switch {
	case err == nil:
		score = p.CreditScore
	case errors.Is(err, profile.ErrNotFound):
	default:
		return nil, err
	}

	b := bandFor(score)
	point := pointEstimate(b, score, in)
	f, err := amortization.Compute(in.Amount, rate.Fraction(point), in.TermMonths, u.feePercent)
	if err != nil {
		return nil, err
	}
	rec := &Recommendation{
		UserID:        in.UserID,
		Role:          in.Role,
		CreditScore:   score,
		Band:          b.Name,
		SuggestedRate: rate.Format(b.Range),
		Range:         b.Range,
		Rate:          point,
		Figures:       f.Rounded(),
	}

	if u.cache != nil {
		if err := cache.SetJSON(ctx, u.cache, key, rec, u.ttl); err != nil {
			log.WithError(err).Warn("recommendation cache write failed")
		}
	}
	return rec, nil
}

// pointEstimate places the score inside its band: the top of the band gets the
// band's minimum rate. Long terms and large amounts move it up, and an
// investor's estimate sits halfway to the band maximum. The result stays
// inside the band.
func pointEstimate(b band, score int, in Input) float64 {
	span := b.Range.Max - b.Range.Min
	pos := float64(score-b.Floor) / float64(b.Ceil-b.Floor)
	pos = min(max(pos, 0), 1)
	v := b.Range.Max - span*pos

	if in.TermMonths > 12 {
		v += 0.01 * float64((in.TermMonths-12)/12)
	}
	if in.Amount > 50000 {
		v += 0.05
	}
	if in.Role == "investor" {
		v += (b.Range.Max - v) / 2
	}
	v = b.Range.Clamp(v)
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
