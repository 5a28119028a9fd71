package services

import (
	"context"
	"fmt"

	"github.com/cyberhope-ai/committee_server/models"
	"gorm.io/gorm"
)

// RoundNavigator moves a case's current round along 1..3. Navigation is
// non-linear (a reviewer can jump back to round 1 while deliberating
// round 3) but forward movement never skips past the first round that has
// no arguments yet, so rounds are still generated in order.
type RoundNavigator struct {
	db    *gorm.DB
	store *ArgumentStore
}

func NewRoundNavigator(db *gorm.DB, store *ArgumentStore) *RoundNavigator {
	return &RoundNavigator{db: db, store: store}
}

// GoTo jumps to a round, triggering the store's lazy fetch for it, and
// persists the new current round on the case.
func (n *RoundNavigator) GoTo(ctx context.Context, kase *models.CommitteeCase, target int) ([]models.PersonaArgument, error) {
	if target < models.FirstRound || target > models.FinalRound {
		return nil, fmt.Errorf("%w: round %d is outside 1-3", ErrInvalidTransition, target)
	}

	if target > kase.CurrentRound {
		highest, err := n.store.HighestPopulatedRound(kase.ID)
		if err != nil {
			return nil, err
		}
		if target > highest+1 {
			return nil, fmt.Errorf("%w: round %d has no arguments yet", ErrInvalidTransition, highest+1)
		}
	}

	args, err := n.store.GetRound(ctx, *kase, target)
	if err != nil {
		return nil, err
	}

	if target != kase.CurrentRound {
		if err := n.db.Model(kase).Update("current_round", target).Error; err != nil {
			return nil, err
		}
		kase.CurrentRound = target
	}

	return args, nil
}

// Advance moves one round forward; a no-op at round 3.
func (n *RoundNavigator) Advance(ctx context.Context, kase *models.CommitteeCase) ([]models.PersonaArgument, error) {
	if kase.CurrentRound >= models.FinalRound {
		return n.store.GetRound(ctx, *kase, models.FinalRound)
	}
	return n.GoTo(ctx, kase, kase.CurrentRound+1)
}

// Retreat moves one round back; a no-op at round 1. Arguments stay cached,
// so this is typically a cache hit.
func (n *RoundNavigator) Retreat(ctx context.Context, kase *models.CommitteeCase) ([]models.PersonaArgument, error) {
	if kase.CurrentRound <= models.FirstRound {
		return n.store.GetRound(ctx, *kase, models.FirstRound)
	}
	return n.GoTo(ctx, kase, kase.CurrentRound-1)
}
