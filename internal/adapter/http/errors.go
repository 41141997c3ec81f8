package http

import (
	"errors"
	"net/http"

	"p2plend-backend/internal/adapter/middleware"
	"p2plend-backend/internal/domain/amortization"
	"p2plend-backend/internal/domain/loan"
	"p2plend-backend/internal/domain/negotiation"
	"p2plend-backend/internal/domain/rate"
	"p2plend-backend/internal/domain/store"
	"p2plend-backend/internal/logger"

	"github.com/labstack/echo/v4"
)

// MsgStale is shown whenever an action hits a negotiation that closed under
// the user. The client is expected to reload and show the new state.
const MsgStale = "this negotiation can no longer be acted on, please refresh"

func badRequest(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c echo.Context, err error) error {
	var (
		ite *negotiation.InvalidTransitionError
		ipe *negotiation.InvalidProposalError
		lpe *amortization.InvalidLoanParametersError
	)
	switch {
	case errors.As(err, &ite):
		msg := err.Error()
		if ite.Terminal() {
			msg = MsgStale
		}
		return c.JSON(http.StatusConflict, ErrorResponse{Error: msg})
	case errors.Is(err, negotiation.ErrNotNegotiable), errors.Is(err, negotiation.ErrOfferUnavailable):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, negotiation.ErrNotFound), errors.Is(err, negotiation.ErrProposalNotFound), errors.Is(err, loan.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, negotiation.ErrNotParticipant):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.As(err, &ipe):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: ipe.Field, Message: ipe.Reason}},
		})
	case errors.Is(err, rate.ErrMalformedRate):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.As(err, &lpe):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid loan parameters",
			Details: []FieldError{{Field: lpe.Field, Message: "is out of range"}},
		})
	case errors.Is(err, store.ErrUnavailable):
		logger.Log.WithError(err).Error("store unavailable")
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "store unavailable, please retry"})
	default:
		logger.Log.WithError(err).Error("unhandled error")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// actorID is the acting user, validated by the idempotency middleware on
// mutating routes.
func actorID(c echo.Context) string {
	return c.Request().Header.Get(middleware.UserIDHeader)
}
