package models

import "time"

// HumanNote is a reviewer annotation attached to a (round, persona) pair.
// Writes are last-writer-wins per key; there is no note history.
type HumanNote struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CaseID        uint      `gorm:"not null;uniqueIndex:idx_notes_case_round_persona" json:"case_id"`
	Round         int       `gorm:"not null;uniqueIndex:idx_notes_case_round_persona" json:"round"`
	PersonaID     PersonaID `gorm:"type:varchar(32);not null;uniqueIndex:idx_notes_case_round_persona" json:"persona_id"`
	ParticipantID uint      `gorm:"not null" json:"participant_id"`
	Note          string    `gorm:"type:text;not null" json:"note"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
