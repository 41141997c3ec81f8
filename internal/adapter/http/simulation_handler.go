package http

import (
	"net/http"

	"p2plend-backend/internal/usecase/recommendation"
	"p2plend-backend/internal/usecase/simulation"

	"github.com/labstack/echo/v4"
)

type SimulationHandler struct {
	sim *simulation.Usecase
	rec *recommendation.Usecase
}

func NewSimulationHandler(sim *simulation.Usecase, rec *recommendation.Usecase) *SimulationHandler {
	return &SimulationHandler{sim: sim, rec: rec}
}

type simulateReq struct {
	Amount       float64  `json:"amount" validate:"required,gt=0,lte=1000000000000,dec2"`
	TermMonths   int      `json:"term_months" validate:"required,gte=1,lte=360"`
	Rate         *float64 `json:"rate" validate:"omitempty,gte=0,lt=100"`
	RateRaw      string   `json:"rate_raw"`
	CompareRate  *float64 `json:"compare_rate" validate:"omitempty,gte=0,lt=100"`
	WithSchedule bool     `json:"with_schedule"`
}

// Simulate handles POST /simulations. rate_raw is parsed by the use case so a
// malformed value surfaces as a rate error, not a validation error.
func (h *SimulationHandler) Simulate(c echo.Context) error {
	var req simulateReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	res, err := h.sim.Simulate(simulation.Input(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type recommendReq struct {
	UserID     string  `query:"user_id" json:"user_id" validate:"required,hex32"`
	Role       string  `query:"role" json:"role" validate:"required,role"`
	Amount     float64 `query:"amount" json:"amount" validate:"required,gt=0,lte=1000000000000,dec2"`
	TermMonths int     `query:"term_months" json:"term_months" validate:"required,gte=1,lte=360"`
}

// Recommend handles GET /recommendations.
func (h *SimulationHandler) Recommend(c echo.Context) error {
	var req recommendReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	rec, err := h.rec.Recommend(c.Request().Context(), recommendation.Input(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}
