package profile

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("profile not found")

// Profile enriches negotiation screens. It never feeds the state machine.
type Profile struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID      string    `gorm:"size:32;uniqueIndex:ux_profiles_user_id" json:"user_id"`
	DisplayName string    `gorm:"size:120" json:"display_name"`
	CreditScore int       `json:"credit_score"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
}
