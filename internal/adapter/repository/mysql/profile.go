package mysql

import (
	"context"

	"p2plend-backend/internal/domain/profile"

	"gorm.io/gorm"
)

type ProfileRepository struct{ db *gorm.DB }

func NewProfileRepository(db *gorm.DB) *ProfileRepository { return &ProfileRepository{db: db} }

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*profile.Profile, error) {
	var out profile.Profile
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	if err := translate("get profile", res.Error, profile.ErrNotFound); err != nil {
		return nil, err
	}
	return &out, nil
}
