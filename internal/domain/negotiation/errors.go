package negotiation

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("negotiation not found")
	ErrProposalNotFound = errors.New("proposal not found")

	ErrInvalidTransition = errors.New("invalid negotiation transition")
	ErrNotParticipant    = errors.New("actor is not a party to this negotiation")
	ErrNotNegotiable     = errors.New("counterparty proposal is not negotiable")
	ErrInvalidProposal   = errors.New("invalid proposal")
)

// InvalidTransitionError reports an action attempted from a status that does
// not allow it. Terminal is set when the negotiation can never be acted on again.
type InvalidTransitionError struct {
	Action string
	From   Status
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot %s negotiation in status %s: %s", e.Action, e.From, e.Reason)
	}
	return fmt.Sprintf("cannot %s negotiation in status %s", e.Action, e.From)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

func (e *InvalidTransitionError) Terminal() bool { return !e.From.Open() }

type InvalidProposalError struct {
	Field  string
	Reason string
}

func (e *InvalidProposalError) Error() string {
	return fmt.Sprintf("invalid proposal: %s %s", e.Field, e.Reason)
}

func (e *InvalidProposalError) Is(target error) bool { return target == ErrInvalidProposal }

var ErrOfferUnavailable = errors.New("offer is no longer available")
