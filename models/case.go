package models

import "time"

// CaseStatus moves forward only: in_progress -> pending_ruling -> completed.
type CaseStatus string

const (
	CaseInProgress    CaseStatus = "in_progress"
	CasePendingRuling CaseStatus = "pending_ruling"
	CaseCompleted     CaseStatus = "completed"
)

// CommitteeCase is one disputed officiating call under committee review.
type CommitteeCase struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	EventID      string     `gorm:"type:varchar(64);not null" json:"event_id"`
	GameID       string     `gorm:"type:varchar(64);not null" json:"game_id"`
	OriginalCall string     `gorm:"type:text;not null" json:"original_call"`
	Status       CaseStatus `gorm:"type:varchar(20);not null;default:in_progress" json:"status"`
	CurrentRound int        `gorm:"not null;default:1" json:"current_round"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
