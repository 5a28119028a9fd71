package models

import "time"

// DissentNote records a round-3 argument that disagreed with the final
// recommendation. The reason is the argument's first key point.
type DissentNote struct {
	PersonaID PersonaID `json:"persona_id"`
	Reason    string    `json:"reason"`
}

// Consensus is the committee's aggregated recommendation for a case,
// reduced from the final round. A case holds at most one current row;
// recomputation replaces it.
type Consensus struct {
	ID               uint                 `gorm:"primaryKey" json:"id"`
	CaseID           uint                 `gorm:"not null;uniqueIndex" json:"case_id"`
	Recommendation   Stance               `gorm:"type:varchar(16);not null" json:"recommendation"`
	Confidence       float64              `gorm:"not null" json:"confidence"`
	Unanimity        float64              `gorm:"not null" json:"unanimity"`
	PersonaVotes     map[PersonaID]Stance `gorm:"serializer:json" json:"persona_votes"`
	DissentNotes     []DissentNote        `gorm:"serializer:json" json:"dissent_notes"`
	FinalReasoning   string               `gorm:"type:text;not null" json:"final_reasoning"`
	SuggestedActions []string             `gorm:"serializer:json" json:"suggested_actions"`
	CreatedAt        time.Time            `json:"created_at"`
}
