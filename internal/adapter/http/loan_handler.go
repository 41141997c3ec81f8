package http

import (
	"net/http"

	"p2plend-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// GetNegotiationLoan handles GET /negotiations/:negotiation_id/loan.
func (h *LoanHandler) GetNegotiationLoan(c echo.Context) error {
	dto, err := h.uc.GetByNegotiation(c.Request().Context(), c.Param("negotiation_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
