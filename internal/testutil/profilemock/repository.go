package profilemock

import (
	"context"

	domain "p2plend-backend/internal/domain/profile"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetByUserIDFn func(ctx context.Context, userID string) (*domain.Profile, error)
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

// Static serves a fixed set of profiles keyed by user id.
func Static(profiles ...domain.Profile) *Repo {
	byID := make(map[string]domain.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.UserID] = p
	}
	return &Repo{GetByUserIDFn: func(_ context.Context, userID string) (*domain.Profile, error) {
		p, ok := byID[userID]
		if !ok {
			return nil, domain.ErrNotFound
		}
		return &p, nil
	}}
}
