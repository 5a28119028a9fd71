package services

import (
	"fmt"

	"github.com/cyberhope-ai/committee_server/models"
)

// EvaluateConsensus reduces a complete final-round argument set into the
// committee's recommendation. Pure and deterministic: the same arguments
// always produce an identical result, which makes recomputation safe.
//
// A tie between uphold and overturn - including the all-abstain 0/0 case -
// resolves to uphold. The committee defaults to the call on the floor.
func EvaluateConsensus(args []models.PersonaArgument) (models.Consensus, error) {
	if !roundComplete(args) {
		return models.Consensus{}, ErrConsensusNotReady
	}
	return reduceConsensus(args), nil
}

// roundComplete reports whether args holds exactly one argument per
// registered persona, with no duplicates or unknown personas.
func roundComplete(args []models.PersonaArgument) bool {
	seen := make(map[models.PersonaID]bool, len(args))
	for _, a := range args {
		if !a.PersonaID.IsValid() || seen[a.PersonaID] {
			return false
		}
		seen[a.PersonaID] = true
	}
	return len(seen) == len(models.AllPersonaIDs())
}

func reduceConsensus(args []models.PersonaArgument) models.Consensus {
	var uphold, overturn, abstain []models.PersonaArgument
	for _, a := range args {
		switch a.Stance {
		case models.StanceUphold:
			uphold = append(uphold, a)
		case models.StanceOverturn:
			overturn = append(overturn, a)
		default:
			abstain = append(abstain, a)
		}
	}

	recommendation := models.StanceUphold
	winning := uphold
	if len(overturn) > len(uphold) {
		recommendation = models.StanceOverturn
		winning = overturn
	}

	confidence := 0.0
	if len(winning) > 0 {
		var sum float64
		for _, a := range winning {
			sum += a.Confidence
		}
		confidence = sum / float64(len(winning))
	}

	totalVoting := len(uphold) + len(overturn)
	unanimity := 0.0
	if totalVoting > 0 {
		unanimity = float64(len(winning)) / float64(totalVoting)
	}

	// Default every registered persona to abstain before overwriting with
	// actual stances, so the vote map always has exactly four entries.
	votes := make(map[models.PersonaID]models.Stance, len(models.AllPersonaIDs()))
	for _, pid := range models.AllPersonaIDs() {
		votes[pid] = models.StanceAbstain
	}
	for _, a := range args {
		if a.PersonaID.IsValid() {
			votes[a.PersonaID] = a.Stance
		}
	}

	var dissent []models.DissentNote
	for _, a := range args {
		if a.Stance == recommendation || a.Stance == models.StanceAbstain {
			continue
		}
		reason := "Dissenting position"
		if len(a.KeyPoints) > 0 {
			reason = a.KeyPoints[0]
		}
		dissent = append(dissent, models.DissentNote{PersonaID: a.PersonaID, Reason: reason})
	}

	return models.Consensus{
		Recommendation:   recommendation,
		Confidence:       confidence,
		Unanimity:        unanimity,
		PersonaVotes:     votes,
		DissentNotes:     dissent,
		FinalReasoning:   finalReasoning(recommendation, confidence, len(winning), totalVoting, len(abstain)),
		SuggestedActions: suggestedActions(recommendation),
	}
}

func finalReasoning(recommendation models.Stance, confidence float64, winners, totalVoting, abstained int) string {
	verb := "upheld"
	if recommendation == models.StanceOverturn {
		verb = "overturned"
	}

	if totalVoting == 0 {
		return fmt.Sprintf(
			"All four personas abstained; the committee defaults to the original call being %s (confidence %.0f%%).",
			verb, confidence*100,
		)
	}

	return fmt.Sprintf(
		"The committee recommends the original call be %s with %.0f%% confidence. %d of %d voting personas support this position; %d abstained.",
		verb, confidence*100, winners, totalVoting, abstained,
	)
}

func suggestedActions(recommendation models.Stance) []string {
	if recommendation == models.StanceOverturn {
		return []string{
			"Send an overturn notice to the referee crew",
			"Escalate the ruling to the league office for standings review",
			"Generate a teaching package contrasting the call with the ruling",
		}
	}
	return []string{
		"Notify the referee crew that the original call stands",
		"Attach the committee reasoning to the event record",
		"Flag the clip for the officiating teaching library",
	}
}
