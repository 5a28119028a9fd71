package services

import "github.com/cyberhope-ai/committee_server/models"

// PersonaMetadata is the display identity of a committee reviewer role.
type PersonaMetadata struct {
	ID    models.PersonaID `json:"id"`
	Name  string           `json:"name"`
	Title string           `json:"title"`
	Focus string           `json:"focus"`
}

var personaRegistry = map[models.PersonaID]PersonaMetadata{
	models.PersonaStrictJudge: {
		ID:    models.PersonaStrictJudge,
		Name:  "The Strict Judge",
		Title: "Rulebook Precision",
		Focus: "letter-of-the-rule enforcement and call accuracy",
	},
	models.PersonaFlowAdvocate: {
		ID:    models.PersonaFlowAdvocate,
		Name:  "The Flow Advocate",
		Title: "Game Continuity",
		Focus: "pace of play and whether a stoppage was warranted",
	},
	models.PersonaSafetyGuardian: {
		ID:    models.PersonaSafetyGuardian,
		Name:  "The Safety Guardian",
		Title: "Player Protection",
		Focus: "contact severity and injury risk to players",
	},
	models.PersonaLeagueRep: {
		ID:    models.PersonaLeagueRep,
		Name:  "The League Representative",
		Title: "League Consistency",
		Focus: "precedent and uniform officiating across the league",
	},
}

// LookupPersona returns metadata for a registered persona. A false return
// means the caller passed a value outside the closed set, which is a
// programming error rather than a runtime condition.
func LookupPersona(id models.PersonaID) (PersonaMetadata, bool) {
	meta, ok := personaRegistry[id]
	return meta, ok
}

// RegisteredPersonas returns all persona metadata in display order.
func RegisteredPersonas() []PersonaMetadata {
	ids := models.AllPersonaIDs()
	metas := make([]PersonaMetadata, 0, len(ids))
	for _, id := range ids {
		metas = append(metas, personaRegistry[id])
	}
	return metas
}
