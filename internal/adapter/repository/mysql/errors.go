package mysql

import (
	"errors"

	"p2plend-backend/internal/domain/store"

	"gorm.io/gorm"
)

// translate maps gorm's not-found to the domain sentinel and wraps everything
// else as a store failure.
func translate(op string, err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	default:
		return store.Unavailable(op, err)
	}
}
