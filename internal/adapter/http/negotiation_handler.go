package http

import (
	"net/http"

	"p2plend-backend/internal/usecase/negotiation"

	"github.com/labstack/echo/v4"
)

type NegotiationHandler struct{ uc *negotiation.Usecase }

func NewNegotiationHandler(uc *negotiation.Usecase) *NegotiationHandler {
	return &NegotiationHandler{uc: uc}
}

type proposalReq struct {
	Role          string   `json:"role" validate:"required,role"`
	Amount        float64  `json:"amount" validate:"required,gt=0,lte=1000000000000,dec2"`
	TermMonths    int      `json:"term_months" validate:"required,gte=1,lte=360"`
	SuggestedRate string   `json:"suggested_rate" validate:"omitempty,ratestr"`
	Rate          *float64 `json:"rate" validate:"omitempty,gt=0,lt=100"`
	Negotiable    *bool    `json:"negotiable"`
	Justification string   `json:"justification" validate:"max=2000"`
}

func (r proposalReq) input(authorID string) negotiation.DraftInput {
	return negotiation.DraftInput{
		AuthorID:      authorID,
		Role:          r.Role,
		Amount:        r.Amount,
		TermMonths:    r.TermMonths,
		SuggestedRate: r.SuggestedRate,
		Rate:          r.Rate,
		Negotiable:    r.Negotiable,
		Justification: r.Justification,
	}
}

type openReq struct {
	proposalReq
	CounterpartyID string `json:"counterparty_id" validate:"omitempty,hex32"`
	OfferID        string `json:"offer_id" validate:"omitempty,hex32"`
}

type actionReq struct {
	Role       string `json:"role" validate:"required,role"`
	ProposalID string `json:"proposal_id" validate:"required,hex32"`
}

func (r actionReq) input(c echo.Context) negotiation.ActionInput {
	return negotiation.ActionInput{
		NegotiationID: c.Param("negotiation_id"),
		ActorID:       actorID(c),
		Role:          r.Role,
		ProposalID:    r.ProposalID,
	}
}

type cancelReq struct {
	Role string `json:"role" validate:"required,role"`
}

// Publish handles POST /offers.
func (h *NegotiationHandler) Publish(c echo.Context) error {
	var req proposalReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.uc.Publish(c.Request().Context(), req.input(actorID(c)))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// Open handles POST /negotiations.
func (h *NegotiationHandler) Open(c echo.Context) error {
	var req openReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	v, err := h.uc.Open(c.Request().Context(), negotiation.OpenInput{
		Draft:          req.input(actorID(c)),
		CounterpartyID: req.CounterpartyID,
		OfferID:        req.OfferID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *NegotiationHandler) Get(c echo.Context) error {
	v, err := h.uc.Get(c.Request().Context(), c.Param("negotiation_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *NegotiationHandler) ListProposals(c echo.Context) error {
	ps, err := h.uc.ListProposals(c.Request().Context(), c.Param("negotiation_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"proposals": ps})
}

// Submit handles POST /negotiations/:negotiation_id/proposals.
func (h *NegotiationHandler) Submit(c echo.Context) error {
	var req proposalReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	v, err := h.uc.Submit(c.Request().Context(), c.Param("negotiation_id"), req.input(actorID(c)))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *NegotiationHandler) Accept(c echo.Context) error {
	var req actionReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	res, err := h.uc.Accept(c.Request().Context(), req.input(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *NegotiationHandler) Reject(c echo.Context) error {
	var req actionReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	v, err := h.uc.Reject(c.Request().Context(), req.input(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *NegotiationHandler) Cancel(c echo.Context) error {
	var req cancelReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	v, err := h.uc.Cancel(c.Request().Context(), negotiation.ActionInput{
		NegotiationID: c.Param("negotiation_id"),
		ActorID:       actorID(c),
		Role:          req.Role,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}
