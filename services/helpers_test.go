package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cyberhope-ai/committee_server/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// Keep a single connection so every query sees the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.CommitteeCase{},
		&models.PersonaArgument{},
		&models.HumanNote{},
		&models.Consensus{},
		&models.ActionRecord{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

var testEmailSeq int

func makeCase(t *testing.T, db *gorm.DB) models.CommitteeCase {
	t.Helper()

	testEmailSeq++
	user := models.User{
		Name:     "Reviewer",
		Email:    fmt.Sprintf("reviewer%d-%d@example.com", testEmailSeq, time.Now().UnixNano()),
		Password: "hashed",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}

	kase := models.CommitteeCase{
		UserID:       user.ID,
		EventID:      "evt-1042",
		GameID:       "game-77",
		OriginalCall: "charging foul on #23",
		Status:       models.CaseInProgress,
		CurrentRound: models.FirstRound,
	}
	if err := db.Create(&kase).Error; err != nil {
		t.Fatalf("create test case: %v", err)
	}
	return kase
}

func testArg(pid models.PersonaID, stance models.Stance, confidence float64, keyPoint string) models.PersonaArgument {
	keyPoints := []string{}
	if keyPoint != "" {
		keyPoints = append(keyPoints, keyPoint, "supporting detail")
	}
	return models.PersonaArgument{
		Round:          models.FinalRound,
		PersonaID:      pid,
		Stance:         stance,
		Confidence:     confidence,
		Reasoning:      "final position",
		KeyPoints:      keyPoints,
		RuleReferences: []string{},
		EmotionalTone:  "measured",
	}
}

// exampleRound3 mirrors the canonical review scenario: two upholds, one
// overturn, one abstention.
func exampleRound3() []models.PersonaArgument {
	return []models.PersonaArgument{
		testArg(models.PersonaStrictJudge, models.StanceUphold, 0.90, "Contact met the rulebook standard"),
		testArg(models.PersonaFlowAdvocate, models.StanceOverturn, 0.58, "The stoppage hurt the game more than the contact"),
		testArg(models.PersonaSafetyGuardian, models.StanceAbstain, 0.50, "No safety implication either way"),
		testArg(models.PersonaLeagueRep, models.StanceUphold, 0.85, "Matches season-long precedent"),
	}
}

func seedRound3(t *testing.T, db *gorm.DB, caseID uint, args []models.PersonaArgument) {
	t.Helper()
	for i := range args {
		args[i].CaseID = caseID
		args[i].Round = models.FinalRound
	}
	if err := db.Create(&args).Error; err != nil {
		t.Fatalf("seed round 3: %v", err)
	}
}

// staticSource returns a fixed argument set for every fetch.
type staticSource struct {
	mu    sync.Mutex
	calls int
	args  []models.PersonaArgument
	err   error
}

func (s *staticSource) FetchRound(ctx context.Context, kase models.CommitteeCase, round int) ([]models.PersonaArgument, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	out := make([]models.PersonaArgument, len(s.args))
	copy(out, s.args)
	for i := range out {
		out[i].Round = round
	}
	return out, nil
}

func (s *staticSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// blockingSource parks every fetch until release is closed, so tests can
// hold two requesters in flight at once.
type blockingSource struct {
	inner   ArgumentSource
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (s *blockingSource) FetchRound(ctx context.Context, kase models.CommitteeCase, round int) ([]models.PersonaArgument, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	<-s.release
	return s.inner.FetchRound(ctx, kase, round)
}

func (s *blockingSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// fakeTransport records dispatches and can be scripted to fail.
type fakeTransport struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (t *fakeTransport) Send(ctx context.Context, payload ActionPayload) (*ActionOutcome, error) {
	t.mu.Lock()
	t.calls++
	n := t.calls
	err := t.err
	t.mu.Unlock()

	if err != nil {
		return nil, err
	}

	return &ActionOutcome{
		Success:   true,
		Message:   fmt.Sprintf("dispatched %s", payload.Type),
		ActionID:  fmt.Sprintf("act-%s-%d", payload.Type, n),
		NextSteps: []string{"await acknowledgement"},
	}, nil
}

func (t *fakeTransport) callCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

func (t *fakeTransport) setErr(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}
