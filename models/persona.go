package models

// PersonaID identifies one of the four fixed committee reviewer roles.
// The set is closed: adding a persona requires a compile-time change to
// every consumer (registry, prompts, vote map).
type PersonaID string

const (
	PersonaStrictJudge    PersonaID = "strict_judge"
	PersonaFlowAdvocate   PersonaID = "flow_advocate"
	PersonaSafetyGuardian PersonaID = "safety_guardian"
	PersonaLeagueRep      PersonaID = "league_rep"
)

// AllPersonaIDs returns the registered personas in display order.
// Order matters only for presentation, never for consensus math.
func AllPersonaIDs() []PersonaID {
	return []PersonaID{
		PersonaStrictJudge,
		PersonaFlowAdvocate,
		PersonaSafetyGuardian,
		PersonaLeagueRep,
	}
}

func (p PersonaID) IsValid() bool {
	switch p {
	case PersonaStrictJudge, PersonaFlowAdvocate, PersonaSafetyGuardian, PersonaLeagueRep:
		return true
	}
	return false
}

// Stance is a persona's position on the disputed call in a given round.
type Stance string

const (
	StanceUphold   Stance = "uphold"
	StanceOverturn Stance = "overturn"
	StanceAbstain  Stance = "abstain"
)

func (s Stance) IsValid() bool {
	switch s {
	case StanceUphold, StanceOverturn, StanceAbstain:
		return true
	}
	return false
}
