package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cyberhope-ai/committee_server/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseService owns the lifecycle of committee cases. All operations against
// one case are serialized through a per-case lock; different cases share no
// mutable state and run concurrently.
type CaseService struct {
	db        *gorm.DB
	store     *ArgumentStore
	nav       *RoundNavigator
	transport ActionTransport

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewCaseService(db *gorm.DB, store *ArgumentStore, transport ActionTransport) *CaseService {
	return &CaseService{
		db:        db,
		store:     store,
		nav:       NewRoundNavigator(db, store),
		transport: transport,
		locks:     make(map[uint]*sync.Mutex),
	}
}

func (s *CaseService) lockFor(caseID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[caseID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[caseID] = m
	}
	return m
}

// CaseSnapshot is the full view of a case: all three round slots as
// populated so far, plus the current consensus if one exists.
type CaseSnapshot struct {
	Case      models.CommitteeCase   `json:"case"`
	Rounds    []models.RoundSnapshot `json:"rounds"`
	Consensus *models.Consensus      `json:"consensus,omitempty"`
}

func (s *CaseService) CreateCase(userID uint, eventID, gameID, originalCall string) (models.CommitteeCase, error) {
	kase := models.CommitteeCase{
		UserID:       userID,
		EventID:      eventID,
		GameID:       gameID,
		OriginalCall: originalCall,
		Status:       models.CaseInProgress,
		CurrentRound: models.FirstRound,
	}
	if err := s.db.Create(&kase).Error; err != nil {
		return models.CommitteeCase{}, err
	}
	return kase, nil
}

func (s *CaseService) GetCase(caseID uint) (models.CommitteeCase, error) {
	var kase models.CommitteeCase
	if err := s.db.First(&kase, caseID).Error; err != nil {
		return models.CommitteeCase{}, err
	}
	return kase, nil
}

func (s *CaseService) ListCases(userID uint) ([]models.CommitteeCase, error) {
	var cases []models.CommitteeCase
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&cases).Error
	return cases, err
}

// Snapshot assembles the case view from cached state only; it never
// triggers argument generation.
func (s *CaseService) Snapshot(caseID uint) (CaseSnapshot, error) {
	kase, err := s.GetCase(caseID)
	if err != nil {
		return CaseSnapshot{}, err
	}

	rounds := make([]models.RoundSnapshot, 0, models.FinalRound)
	for round := models.FirstRound; round <= models.FinalRound; round++ {
		snapshot, err := s.store.RoundSnapshot(caseID, round)
		if err != nil {
			return CaseSnapshot{}, err
		}
		rounds = append(rounds, snapshot)
	}

	view := CaseSnapshot{Case: kase, Rounds: rounds}

	var consensus models.Consensus
	err = s.db.Where("case_id = ?", caseID).First(&consensus).Error
	switch {
	case err == nil:
		view.Consensus = &consensus
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no consensus yet
	default:
		return CaseSnapshot{}, err
	}

	return view, nil
}

// RoundDetail returns a round's arguments and notes, lazily fetching the
// arguments from the source on first access.
func (s *CaseService) RoundDetail(ctx context.Context, caseID uint, round int) (models.RoundSnapshot, error) {
	lock := s.lockFor(caseID)
	lock.Lock()
	defer lock.Unlock()

	kase, err := s.GetCase(caseID)
	if err != nil {
		return models.RoundSnapshot{}, err
	}

	if _, err := s.store.GetRound(ctx, kase, round); err != nil {
		return models.RoundSnapshot{}, err
	}

	return s.store.RoundSnapshot(caseID, round)
}

// Navigate moves the case's current round and returns the target round's
// arguments.
func (s *CaseService) Navigate(ctx context.Context, caseID uint, target int) (models.CommitteeCase, []models.PersonaArgument, error) {
	lock := s.lockFor(caseID)
	lock.Lock()
	defer lock.Unlock()

	kase, err := s.GetCase(caseID)
	if err != nil {
		return models.CommitteeCase{}, nil, err
	}

	args, err := s.nav.GoTo(ctx, &kase, target)
	if err != nil {
		return models.CommitteeCase{}, nil, err
	}

	return kase, args, nil
}

// AppendNote upserts a human annotation on a (round, persona) pair.
func (s *CaseService) AppendNote(caseID uint, round int, personaID models.PersonaID, participantID uint, note string) (models.HumanNote, error) {
	lock := s.lockFor(caseID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.GetCase(caseID); err != nil {
		return models.HumanNote{}, err
	}

	return s.store.AppendHumanNote(caseID, round, personaID, participantID, note)
}

// ComputeConsensus reduces the cached final round into a consensus and
// attaches it to the case, moving in_progress cases to pending_ruling.
// Recomputation while pending_ruling replaces the result; a completed
// case's ruling is immutable. A still-loading or incomplete round 3 is
// reported as not ready rather than computed over partially.
func (s *CaseService) ComputeConsensus(ctx context.Context, caseID uint) (models.Consensus, error) {
	if err := ctx.Err(); err != nil {
		return models.Consensus{}, err
	}

	lock := s.lockFor(caseID)
	lock.Lock()
	defer lock.Unlock()

	kase, err := s.GetCase(caseID)
	if err != nil {
		return models.Consensus{}, err
	}

	if kase.Status == models.CaseCompleted {
		return models.Consensus{}, fmt.Errorf("%w: ruling on a completed case is immutable", ErrInvalidTransition)
	}

	var args []models.PersonaArgument
	if err := s.db.
		Where("case_id = ? AND round = ?", caseID, models.FinalRound).
		Order("persona_id").
		Find(&args).Error; err != nil {
		return models.Consensus{}, err
	}

	result, err := EvaluateConsensus(args)
	if err != nil {
		return models.Consensus{}, err
	}
	result.CaseID = caseID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("case_id = ?", caseID).Delete(&models.Consensus{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&result).Error; err != nil {
			return err
		}
		if kase.Status == models.CaseInProgress {
			if err := tx.Model(&kase).Update("status", models.CasePendingRuling).Error; err != nil {
				return err
			}
			kase.Status = models.CasePendingRuling
		}
		return nil
	})
	if err != nil {
		return models.Consensus{}, err
	}

	return result, nil
}

// DispatchAction executes exactly one governance action for a case.
// Repeating a dispatch that already succeeded for the same (case, type)
// returns the original actionID without touching the transport; a case
// completed by one action type rejects the other types.
func (s *CaseService) DispatchAction(ctx context.Context, caseID uint, actionType models.ActionType, notes string) (*ActionOutcome, error) {
	if !actionType.IsValid() {
		return nil, fmt.Errorf("unknown action type %q", actionType)
	}

	lock := s.lockFor(caseID)
	lock.Lock()
	defer lock.Unlock()

	kase, err := s.GetCase(caseID)
	if err != nil {
		return nil, err
	}

	var consensus models.Consensus
	if err := s.db.Where("case_id = ?", caseID).First(&consensus).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoConsensusAvailable
		}
		return nil, err
	}

	// Idempotent replay: a prior success for this (case, type) short-circuits.
	var existing models.ActionRecord
	err = s.db.Where("case_id = ? AND type = ?", caseID, actionType).First(&existing).Error
	switch {
	case err == nil:
		return &ActionOutcome{
			Success:   true,
			Message:   existing.Message,
			ActionID:  existing.ActionID,
			NextSteps: existing.NextSteps,
		}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first dispatch of this type
	default:
		return nil, err
	}

	if kase.Status == models.CaseCompleted {
		return nil, fmt.Errorf("%w: case already completed by a different action", ErrInvalidTransition)
	}

	payload := ActionPayload{
		Type:           actionType,
		CommitteeID:    caseID,
		EventID:        kase.EventID,
		Recommendation: consensus.Recommendation,
		Notes:          notes,
	}

	outcome, err := s.transport.Send(ctx, payload)
	if err != nil {
		return nil, &DispatchFailedError{Type: actionType, Cause: err}
	}
	if !outcome.Success {
		return nil, &DispatchFailedError{Type: actionType, Cause: errors.New(outcome.Message)}
	}
	if outcome.ActionID == "" {
		outcome.ActionID = uuid.New().String()
	}

	record := models.ActionRecord{
		CaseID:    caseID,
		Type:      actionType,
		ActionID:  outcome.ActionID,
		Message:   outcome.Message,
		NextSteps: outcome.NextSteps,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Model(&kase).Update("status", models.CaseCompleted).Error
	})
	if err != nil {
		return nil, err
	}

	fmt.Println("Governance action recorded and case marked complete:", caseID)

	return outcome, nil
}
