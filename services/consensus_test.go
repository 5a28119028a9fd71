package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/cyberhope-ai/committee_server/models"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestConsensusExampleScenario(t *testing.T) {
	result, err := EvaluateConsensus(exampleRound3())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Recommendation != models.StanceUphold {
		t.Fatalf("expected uphold, got %s", result.Recommendation)
	}
	if !approxEqual(result.Confidence, (0.90+0.85)/2) {
		t.Fatalf("expected confidence 0.875, got %f", result.Confidence)
	}
	if !approxEqual(result.Unanimity, 2.0/3.0) {
		t.Fatalf("expected unanimity 2/3, got %f", result.Unanimity)
	}

	wantVotes := map[models.PersonaID]models.Stance{
		models.PersonaStrictJudge:    models.StanceUphold,
		models.PersonaFlowAdvocate:   models.StanceOverturn,
		models.PersonaSafetyGuardian: models.StanceAbstain,
		models.PersonaLeagueRep:      models.StanceUphold,
	}
	if !reflect.DeepEqual(result.PersonaVotes, wantVotes) {
		t.Fatalf("unexpected vote map: %v", result.PersonaVotes)
	}

	if len(result.DissentNotes) != 1 {
		t.Fatalf("expected 1 dissent note, got %d", len(result.DissentNotes))
	}
	if result.DissentNotes[0].PersonaID != models.PersonaFlowAdvocate {
		t.Fatalf("expected flow_advocate dissent, got %s", result.DissentNotes[0].PersonaID)
	}
	if result.DissentNotes[0].Reason != "The stoppage hurt the game more than the contact" {
		t.Fatalf("expected first key point as dissent reason, got %q", result.DissentNotes[0].Reason)
	}
}

func TestConsensusTieBreaksToUphold(t *testing.T) {
	cases := []struct {
		name string
		args []models.PersonaArgument
	}{
		{
			name: "two versus two",
			args: []models.PersonaArgument{
				testArg(models.PersonaStrictJudge, models.StanceUphold, 0.7, "a"),
				testArg(models.PersonaFlowAdvocate, models.StanceOverturn, 0.9, "b"),
				testArg(models.PersonaSafetyGuardian, models.StanceUphold, 0.6, "c"),
				testArg(models.PersonaLeagueRep, models.StanceOverturn, 0.95, "d"),
			},
		},
		{
			name: "one versus one",
			args: []models.PersonaArgument{
				testArg(models.PersonaStrictJudge, models.StanceUphold, 0.55, "a"),
				testArg(models.PersonaFlowAdvocate, models.StanceOverturn, 0.99, "b"),
				testArg(models.PersonaSafetyGuardian, models.StanceAbstain, 0.5, "c"),
				testArg(models.PersonaLeagueRep, models.StanceAbstain, 0.5, "d"),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := EvaluateConsensus(tc.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Recommendation != models.StanceUphold {
				t.Fatalf("tie must resolve to uphold, got %s", result.Recommendation)
			}
		})
	}
}

func TestConsensusAllAbstain(t *testing.T) {
	args := []models.PersonaArgument{
		testArg(models.PersonaStrictJudge, models.StanceAbstain, 0.5, "a"),
		testArg(models.PersonaFlowAdvocate, models.StanceAbstain, 0.5, "b"),
		testArg(models.PersonaSafetyGuardian, models.StanceAbstain, 0.5, "c"),
		testArg(models.PersonaLeagueRep, models.StanceAbstain, 0.5, "d"),
	}

	result, err := EvaluateConsensus(args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Recommendation != models.StanceUphold {
		t.Fatalf("all-abstain must default to uphold, got %s", result.Recommendation)
	}
	if result.Confidence != 0 {
		t.Fatalf("expected confidence 0, got %f", result.Confidence)
	}
	if result.Unanimity != 0 {
		t.Fatalf("expected unanimity 0, got %f", result.Unanimity)
	}
	if len(result.DissentNotes) != 0 {
		t.Fatalf("expected no dissent notes, got %d", len(result.DissentNotes))
	}
	if result.FinalReasoning == "" || len(result.SuggestedActions) == 0 {
		t.Fatal("expected templated reasoning and suggested actions")
	}
}

func TestConsensusNotReady(t *testing.T) {
	cases := []struct {
		name string
		args []models.PersonaArgument
	}{
		{name: "empty round", args: nil},
		{name: "missing persona", args: exampleRound3()[:3]},
		{
			name: "duplicate persona",
			args: []models.PersonaArgument{
				testArg(models.PersonaStrictJudge, models.StanceUphold, 0.7, "a"),
				testArg(models.PersonaStrictJudge, models.StanceOverturn, 0.7, "b"),
				testArg(models.PersonaSafetyGuardian, models.StanceUphold, 0.6, "c"),
				testArg(models.PersonaLeagueRep, models.StanceUphold, 0.8, "d"),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EvaluateConsensus(tc.args)
			if !errors.Is(err, ErrConsensusNotReady) {
				t.Fatalf("expected ErrConsensusNotReady, got %v", err)
			}
		})
	}
}

func TestConsensusVoteMapDefaultsMissingPersona(t *testing.T) {
	// Defensive reduction path: even with a persona's argument missing the
	// vote map keeps exactly four entries, defaulting to abstain.
	result := reduceConsensus(exampleRound3()[:3])

	if len(result.PersonaVotes) != len(models.AllPersonaIDs()) {
		t.Fatalf("expected %d vote entries, got %d", len(models.AllPersonaIDs()), len(result.PersonaVotes))
	}
	if result.PersonaVotes[models.PersonaLeagueRep] != models.StanceAbstain {
		t.Fatalf("missing persona must default to abstain, got %s", result.PersonaVotes[models.PersonaLeagueRep])
	}
}

func TestConsensusIdempotent(t *testing.T) {
	args := exampleRound3()

	first, err := EvaluateConsensus(args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := EvaluateConsensus(args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("recomputation from the same arguments must be identical")
	}
}

func TestConsensusDissentFallbackReason(t *testing.T) {
	args := []models.PersonaArgument{
		testArg(models.PersonaStrictJudge, models.StanceUphold, 0.8, "a"),
		testArg(models.PersonaFlowAdvocate, models.StanceOverturn, 0.6, ""),
		testArg(models.PersonaSafetyGuardian, models.StanceUphold, 0.7, "c"),
		testArg(models.PersonaLeagueRep, models.StanceUphold, 0.9, "d"),
	}

	result, err := EvaluateConsensus(args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.DissentNotes) != 1 {
		t.Fatalf("expected 1 dissent note, got %d", len(result.DissentNotes))
	}
	if result.DissentNotes[0].Reason != "Dissenting position" {
		t.Fatalf("expected fallback reason, got %q", result.DissentNotes[0].Reason)
	}
}

func TestConsensusOverturnMajority(t *testing.T) {
	args := []models.PersonaArgument{
		testArg(models.PersonaStrictJudge, models.StanceOverturn, 0.8, "a"),
		testArg(models.PersonaFlowAdvocate, models.StanceOverturn, 0.6, "b"),
		testArg(models.PersonaSafetyGuardian, models.StanceOverturn, 0.7, "c"),
		testArg(models.PersonaLeagueRep, models.StanceUphold, 0.9, "d"),
	}

	result, err := EvaluateConsensus(args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Recommendation != models.StanceOverturn {
		t.Fatalf("expected overturn, got %s", result.Recommendation)
	}
	if !approxEqual(result.Confidence, (0.8+0.6+0.7)/3) {
		t.Fatalf("unexpected confidence %f", result.Confidence)
	}
	if !approxEqual(result.Unanimity, 3.0/4.0) {
		t.Fatalf("unexpected unanimity %f", result.Unanimity)
	}

	upholdActions := suggestedActions(models.StanceUphold)
	if reflect.DeepEqual(result.SuggestedActions, upholdActions) {
		t.Fatal("suggested actions must differ between uphold and overturn")
	}
}

func TestConsensusBounds(t *testing.T) {
	// Sweep synthetic rounds to check confidence and unanimity stay in [0,1].
	source := NewSyntheticArgumentSource()
	for i := 0; i < 25; i++ {
		kase := models.CommitteeCase{EventID: fmt.Sprintf("evt-%d", i), OriginalCall: "holding"}
		args, err := source.FetchRound(context.Background(), kase, models.FinalRound)
		if err != nil {
			t.Fatalf("synthetic fetch: %v", err)
		}
		result, err := EvaluateConsensus(args)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Confidence < 0 || result.Confidence > 1 {
			t.Fatalf("confidence out of bounds: %f", result.Confidence)
		}
		if result.Unanimity < 0 || result.Unanimity > 1 {
			t.Fatalf("unanimity out of bounds: %f", result.Unanimity)
		}
	}
}
