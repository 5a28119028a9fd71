package services

import (
	"context"
	"fmt"

	"github.com/cyberhope-ai/committee_server/models"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArgumentStore caches persona arguments per (caseID, round). Rounds are
// fetched from the configured ArgumentSource at most once; concurrent
// requests for the same round share a single in-flight fetch.
type ArgumentStore struct {
	db     *gorm.DB
	source ArgumentSource
	group  singleflight.Group
}

func NewArgumentStore(db *gorm.DB, source ArgumentSource) *ArgumentStore {
	return &ArgumentStore{db: db, source: source}
}

// GetRound returns the cached arguments for a round, fetching and caching
// them on first access. Fetch failures surface as ArgumentsUnavailableError;
// the store never substitutes synthetic data on its own.
func (s *ArgumentStore) GetRound(ctx context.Context, kase models.CommitteeCase, round int) ([]models.PersonaArgument, error) {
	if round < models.FirstRound || round > models.FinalRound {
		return nil, fmt.Errorf("%w: round %d is outside 1-3", ErrInvalidTransition, round)
	}

	cached, err := s.cachedRound(kase.ID, round)
	if err != nil {
		return nil, &ArgumentsUnavailableError{CaseID: kase.ID, Round: round, Cause: err}
	}
	if len(cached) > 0 {
		return cached, nil
	}

	key := fmt.Sprintf("%d:%d", kase.ID, round)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		fetched, err := s.source.FetchRound(ctx, kase, round)
		if err != nil {
			return nil, err
		}
		for i := range fetched {
			fetched[i].CaseID = kase.ID
			fetched[i].Round = round
		}
		if len(fetched) > 0 {
			// A racing fetch may have persisted first; their rows win.
			if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fetched).Error; err != nil {
				return nil, err
			}
		}
		return s.cachedRound(kase.ID, round)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ArgumentsUnavailableError{CaseID: kase.ID, Round: round, Cause: err}
	}

	return v.([]models.PersonaArgument), nil
}

func (s *ArgumentStore) cachedRound(caseID uint, round int) ([]models.PersonaArgument, error) {
	var args []models.PersonaArgument
	err := s.db.
		Where("case_id = ? AND round = ?", caseID, round).
		Order("persona_id").
		Find(&args).Error
	return args, err
}

// HighestPopulatedRound returns the highest round holding at least one
// argument, or 0 when no round has been fetched yet.
func (s *ArgumentStore) HighestPopulatedRound(caseID uint) (int, error) {
	var highest int
	err := s.db.Model(&models.PersonaArgument{}).
		Where("case_id = ?", caseID).
		Select("COALESCE(MAX(round), 0)").
		Scan(&highest).Error
	return highest, err
}

// RoundSnapshot assembles the cached view of a round without triggering a
// fetch. Completion is derived: one argument per registered persona.
func (s *ArgumentStore) RoundSnapshot(caseID uint, round int) (models.RoundSnapshot, error) {
	args, err := s.cachedRound(caseID, round)
	if err != nil {
		return models.RoundSnapshot{}, err
	}

	var notes []models.HumanNote
	if err := s.db.
		Where("case_id = ? AND round = ?", caseID, round).
		Order("persona_id").
		Find(&notes).Error; err != nil {
		return models.RoundSnapshot{}, err
	}

	snapshot := models.RoundSnapshot{
		RoundNumber: round,
		RoundType:   models.RoundTypeFor(round),
		Arguments:   args,
		HumanNotes:  notes,
	}

	if roundComplete(args) {
		completed := args[0].CreatedAt
		for _, a := range args[1:] {
			if a.CreatedAt.After(completed) {
				completed = a.CreatedAt
			}
		}
		snapshot.CompletedAt = &completed
	}

	return snapshot, nil
}

// AppendHumanNote upserts a reviewer note keyed by (round, persona).
// A new note for the same key overwrites; there is no note history.
func (s *ArgumentStore) AppendHumanNote(caseID uint, round int, personaID models.PersonaID, participantID uint, note string) (models.HumanNote, error) {
	if round < models.FirstRound || round > models.FinalRound {
		return models.HumanNote{}, fmt.Errorf("%w: round %d is outside 1-3", ErrInvalidTransition, round)
	}
	if !personaID.IsValid() {
		return models.HumanNote{}, fmt.Errorf("unknown persona %q", personaID)
	}

	rec := models.HumanNote{
		CaseID:        caseID,
		Round:         round,
		PersonaID:     personaID,
		ParticipantID: participantID,
		Note:          note,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "case_id"},
			{Name: "round"},
			{Name: "persona_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"participant_id", "note", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return models.HumanNote{}, err
	}

	return rec, nil
}
