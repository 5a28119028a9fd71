package models

import "time"

// PersonaArgument is one persona's position in one round of a case.
// Immutable once fetched; human annotations live in HumanNote instead.
type PersonaArgument struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	CaseID         uint       `gorm:"not null;uniqueIndex:idx_args_case_round_persona" json:"case_id"`
	Round          int        `gorm:"not null;uniqueIndex:idx_args_case_round_persona" json:"round"`
	PersonaID      PersonaID  `gorm:"type:varchar(32);not null;uniqueIndex:idx_args_case_round_persona" json:"persona_id"`
	Stance         Stance     `gorm:"type:varchar(16);not null" json:"stance"`
	Confidence     float64    `gorm:"not null" json:"confidence"`
	Reasoning      string     `gorm:"type:text;not null" json:"reasoning"`
	KeyPoints      []string   `gorm:"serializer:json" json:"key_points"`
	RuleReferences []string   `gorm:"serializer:json" json:"rule_references"`
	EmotionalTone  string     `gorm:"type:varchar(20)" json:"emotional_tone"`
	RebuttalTo     *PersonaID `gorm:"type:varchar(32)" json:"rebuttal_to,omitempty"` // round 2 only
	CreatedAt      time.Time  `json:"created_at"`
}
