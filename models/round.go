package models

import "time"

const (
	FirstRound = 1
	FinalRound = 3
)

// RoundType is a pure function of the round number.
type RoundType string

const (
	RoundInitial  RoundType = "initial"
	RoundRebuttal RoundType = "rebuttal"
	RoundFinal    RoundType = "final"
)

func RoundTypeFor(round int) RoundType {
	switch round {
	case 1:
		return RoundInitial
	case 2:
		return RoundRebuttal
	default:
		return RoundFinal
	}
}

// RoundSnapshot is the assembled view of one deliberation round: the cached
// persona arguments plus any human annotations. CompletedAt is derived, not
// stored; it is present once every registered persona has argued.
type RoundSnapshot struct {
	RoundNumber int               `json:"round_number"`
	RoundType   RoundType         `json:"round_type"`
	Arguments   []PersonaArgument `json:"arguments"`
	HumanNotes  []HumanNote       `json:"human_notes"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}
