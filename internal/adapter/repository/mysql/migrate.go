package mysql

import (
	"p2plend-backend/internal/domain/loan"
	"p2plend-backend/internal/domain/negotiation"
	"p2plend-backend/internal/domain/profile"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&negotiation.Negotiation{},
		&negotiation.Proposal{},
		&loan.Loan{},
		&profile.Profile{},
	)
}
