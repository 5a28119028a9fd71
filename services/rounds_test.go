package services

import (
	"context"
	"errors"
	"testing"

	"github.com/cyberhope-ai/committee_server/models"
)

func newNavigator(t *testing.T) (*RoundNavigator, *staticSource, models.CommitteeCase) {
	t.Helper()
	db := newTestDB(t)
	source := &staticSource{args: exampleRound3()}
	store := NewArgumentStore(db, source)
	return NewRoundNavigator(db, store), source, makeCase(t, db)
}

func TestNavigatorRejectsRoundOutsideRange(t *testing.T) {
	nav, _, kase := newNavigator(t)

	for _, target := range []int{0, 4} {
		if _, err := nav.GoTo(context.Background(), &kase, target); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("round %d: expected ErrInvalidTransition, got %v", target, err)
		}
	}
}

func TestNavigatorAdvanceRequiresCurrentRoundArguments(t *testing.T) {
	nav, _, kase := newNavigator(t)

	// Round 1 has not been loaded yet, so the case cannot move past it.
	if _, err := nav.Advance(context.Background(), &kase); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if kase.CurrentRound != 1 {
		t.Fatalf("failed advance must not move the round, got %d", kase.CurrentRound)
	}
}

func TestNavigatorWalksForwardAndStopsAtFinal(t *testing.T) {
	nav, _, kase := newNavigator(t)

	if _, err := nav.GoTo(context.Background(), &kase, 1); err != nil {
		t.Fatalf("load round 1: %v", err)
	}

	for _, want := range []int{2, 3} {
		if _, err := nav.Advance(context.Background(), &kase); err != nil {
			t.Fatalf("advance to %d: %v", want, err)
		}
		if kase.CurrentRound != want {
			t.Fatalf("expected round %d, got %d", want, kase.CurrentRound)
		}
	}

	// Advancing at round 3 is a no-op.
	args, err := nav.Advance(context.Background(), &kase)
	if err != nil {
		t.Fatalf("no-op advance: %v", err)
	}
	if kase.CurrentRound != models.FinalRound {
		t.Fatalf("expected to stay at round 3, got %d", kase.CurrentRound)
	}
	if len(args) != 4 {
		t.Fatalf("no-op advance should return current round arguments, got %d", len(args))
	}
}

func TestNavigatorRetreatNoOpAtRoundOne(t *testing.T) {
	nav, _, kase := newNavigator(t)

	if _, err := nav.GoTo(context.Background(), &kase, 1); err != nil {
		t.Fatalf("load round 1: %v", err)
	}

	if _, err := nav.Retreat(context.Background(), &kase); err != nil {
		t.Fatalf("no-op retreat: %v", err)
	}
	if kase.CurrentRound != models.FirstRound {
		t.Fatalf("expected to stay at round 1, got %d", kase.CurrentRound)
	}
}

func TestNavigatorJumpBackIsCacheHit(t *testing.T) {
	nav, source, kase := newNavigator(t)

	for round := 1; round <= 3; round++ {
		if _, err := nav.GoTo(context.Background(), &kase, round); err != nil {
			t.Fatalf("walk to round %d: %v", round, err)
		}
	}
	fetchesAfterWalk := source.callCount()

	// A reviewer re-reads round 1 while deliberating round 3.
	if _, err := nav.GoTo(context.Background(), &kase, 1); err != nil {
		t.Fatalf("jump back: %v", err)
	}
	if kase.CurrentRound != 1 {
		t.Fatalf("expected round 1, got %d", kase.CurrentRound)
	}

	if _, err := nav.GoTo(context.Background(), &kase, 3); err != nil {
		t.Fatalf("jump forward to populated round: %v", err)
	}
	if kase.CurrentRound != 3 {
		t.Fatalf("expected round 3, got %d", kase.CurrentRound)
	}

	if source.callCount() != fetchesAfterWalk {
		t.Fatalf("revisits must be cache hits: %d fetches before, %d after", fetchesAfterWalk, source.callCount())
	}
}

func TestNavigatorForwardJumpCannotSkipUnpopulatedRound(t *testing.T) {
	nav, _, kase := newNavigator(t)

	if _, err := nav.GoTo(context.Background(), &kase, 1); err != nil {
		t.Fatalf("load round 1: %v", err)
	}

	if _, err := nav.GoTo(context.Background(), &kase, 3); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition when skipping round 2, got %v", err)
	}
	if kase.CurrentRound != 1 {
		t.Fatalf("failed jump must not move the round, got %d", kase.CurrentRound)
	}
}
