package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"os"

	"github.com/cyberhope-ai/committee_server/models"
)

// ArgumentSource produces one round of persona arguments for a case.
// Implementations: OpenAIArgumentSource (real backend) and
// SyntheticArgumentSource (deterministic generator for dev and tests).
// The selection is configuration, never a silent fallback inside core logic.
type ArgumentSource interface {
	FetchRound(ctx context.Context, kase models.CommitteeCase, round int) ([]models.PersonaArgument, error)
}

// SelectArgumentSource picks the source from ARGUMENT_SOURCE.
func SelectArgumentSource() ArgumentSource {
	if os.Getenv("ARGUMENT_SOURCE") == "openai" {
		return NewOpenAIArgumentSource()
	}
	return NewSyntheticArgumentSource()
}

// SyntheticArgumentSource fabricates plausible per-round arguments. The
// output is a pure function of (eventID, round, persona), so repeated
// fetches for the same round are identical.
type SyntheticArgumentSource struct{}

func NewSyntheticArgumentSource() *SyntheticArgumentSource {
	return &SyntheticArgumentSource{}
}

func (s *SyntheticArgumentSource) FetchRound(ctx context.Context, kase models.CommitteeCase, round int) ([]models.PersonaArgument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	args := make([]models.PersonaArgument, 0, len(models.AllPersonaIDs()))
	for _, pid := range models.AllPersonaIDs() {
		args = append(args, synthesizeArgument(kase, round, pid))
	}
	return args, nil
}

type personaProfile struct {
	upholdWeight  float64 // remainder of (uphold + abstain) weight goes to overturn
	abstainWeight float64
	keyPoints     []string
	ruleRefs      []string
}

var personaProfiles = map[models.PersonaID]personaProfile{
	models.PersonaStrictJudge: {
		upholdWeight:  0.60,
		abstainWeight: 0.05,
		keyPoints: []string{
			"The contact matches the rulebook definition exactly",
			"Officials applied the letter of the rule on the floor",
			"Video angle confirms the infraction occurred before the whistle",
			"Precedent requires consistent application regardless of game state",
		},
		ruleRefs: []string{"Rule 12.4(b)", "Rule 7.1", "Case Book 12-18"},
	},
	models.PersonaFlowAdvocate: {
		upholdWeight:  0.35,
		abstainWeight: 0.10,
		keyPoints: []string{
			"The stoppage disrupted a clean transition sequence",
			"Marginal contact of this kind is absorbed dozens of times per game",
			"Calling this tight invites constant interruptions",
			"The play had no material effect on the possession",
		},
		ruleRefs: []string{"Points of Emphasis 3", "Rule 2.2"},
	},
	models.PersonaSafetyGuardian: {
		upholdWeight:  0.55,
		abstainWeight: 0.15,
		keyPoints: []string{
			"The contact targeted an unprotected player position",
			"Allowing this play raises downstream injury risk",
			"Player safety outweighs marginal flow considerations",
			"The landing zone was compromised by the defender",
		},
		ruleRefs: []string{"Rule 12.9", "Safety Directive 2024-02"},
	},
	models.PersonaLeagueRep: {
		upholdWeight:  0.50,
		abstainWeight: 0.20,
		keyPoints: []string{
			"Comparable plays this season were officiated the same way",
			"Reversal here would fragment league-wide standards",
			"The crew followed the current officiating guidance",
			"Consistency across venues matters more than this single call",
		},
		ruleRefs: []string{"League Memo 14", "Rule 2.6"},
	},
}

var syntheticTones = []string{"measured", "assertive", "conciliatory", "urgent"}

func synthesizeArgument(kase models.CommitteeCase, round int, pid models.PersonaID) models.PersonaArgument {
	rng := rand.New(rand.NewSource(int64(syntheticSeed(kase.EventID, round, pid))))
	profile := personaProfiles[pid]

	roll := rng.Float64()
	stance := models.StanceOverturn
	switch {
	case roll < profile.upholdWeight:
		stance = models.StanceUphold
	case roll < profile.upholdWeight+profile.abstainWeight:
		stance = models.StanceAbstain
	}

	confidence := math.Round((0.5+0.45*rng.Float64())*100) / 100

	first := rng.Intn(len(profile.keyPoints))
	second := (first + 1 + rng.Intn(len(profile.keyPoints)-1)) % len(profile.keyPoints)
	keyPoints := []string{profile.keyPoints[first], profile.keyPoints[second]}

	ruleRefs := []string{}
	if n := rng.Intn(len(profile.ruleRefs) + 1); n > 0 {
		ruleRefs = append(ruleRefs, profile.ruleRefs[:n]...)
	}

	var rebuttalTo *models.PersonaID
	if round == 2 {
		others := make([]models.PersonaID, 0, 3)
		for _, other := range models.AllPersonaIDs() {
			if other != pid {
				others = append(others, other)
			}
		}
		target := others[rng.Intn(len(others))]
		rebuttalTo = &target
	}

	meta, _ := LookupPersona(pid)
	reasoning := fmt.Sprintf(
		"%s (%s) reviewed the call %q and argues to %s. %s.",
		meta.Name, string(models.RoundTypeFor(round)), kase.OriginalCall, stance, keyPoints[0],
	)
	if round == 2 && rebuttalTo != nil {
		rebutted, _ := LookupPersona(*rebuttalTo)
		reasoning = fmt.Sprintf("%s This directly rebuts %s's initial position.", reasoning, rebutted.Name)
	}

	return models.PersonaArgument{
		Round:          round,
		PersonaID:      pid,
		Stance:         stance,
		Confidence:     confidence,
		Reasoning:      reasoning,
		KeyPoints:      keyPoints,
		RuleReferences: ruleRefs,
		EmotionalTone:  syntheticTones[rng.Intn(len(syntheticTones))],
		RebuttalTo:     rebuttalTo,
	}
}

func syntheticSeed(eventID string, round int, pid models.PersonaID) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d|%s", eventID, round, pid)
	return h.Sum64()
}
