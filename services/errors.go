package services

import (
	"errors"
	"fmt"

	"github.com/cyberhope-ai/committee_server/models"
)

var (
	// ErrConsensusNotReady means consensus was requested before the final
	// round held one argument per persona. Caller error; no state mutated.
	ErrConsensusNotReady = errors.New("consensus not ready: final round is incomplete")

	// ErrNoConsensusAvailable means a governance dispatch was attempted
	// before any consensus was computed for the case.
	ErrNoConsensusAvailable = errors.New("no consensus available for this case")

	// ErrInvalidTransition covers any attempt to move a case backward,
	// recompute a completed case's ruling, or navigate outside rounds 1-3.
	ErrInvalidTransition = errors.New("invalid case transition")
)

// ArgumentsUnavailableError wraps a failed round fetch. Retryable; cached
// state for other rounds is untouched.
type ArgumentsUnavailableError struct {
	CaseID uint
	Round  int
	Cause  error
}

func (e *ArgumentsUnavailableError) Error() string {
	return fmt.Sprintf("arguments unavailable for case %d round %d: %v", e.CaseID, e.Round, e.Cause)
}

func (e *ArgumentsUnavailableError) Unwrap() error {
	return e.Cause
}

// DispatchFailedError wraps an action transport failure. Retryable; the
// case stays pending_ruling until a dispatch succeeds.
type DispatchFailedError struct {
	Type  models.ActionType
	Cause error
}

func (e *DispatchFailedError) Error() string {
	return fmt.Sprintf("dispatch of %s failed: %v", e.Type, e.Cause)
}

func (e *DispatchFailedError) Unwrap() error {
	return e.Cause
}
