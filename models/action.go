package models

import "time"

// ActionType is one of the three mutually exclusive governance intents.
type ActionType string

const (
	ActionSendToReferee         ActionType = "send_to_referee"
	ActionEscalateToLeague      ActionType = "escalate_to_league"
	ActionCreateTeachingPackage ActionType = "create_teaching_package"
)

func (a ActionType) IsValid() bool {
	switch a {
	case ActionSendToReferee, ActionEscalateToLeague, ActionCreateTeachingPackage:
		return true
	}
	return false
}

// ActionRecord is the audit row for a successful governance dispatch.
// The unique (case_id, type) index is what makes retried dispatches
// idempotent across process restarts.
type ActionRecord struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CaseID    uint       `gorm:"not null;uniqueIndex:idx_actions_case_type" json:"case_id"`
	Type      ActionType `gorm:"type:varchar(32);not null;uniqueIndex:idx_actions_case_type" json:"type"`
	ActionID  string     `gorm:"type:varchar(64);not null" json:"action_id"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	NextSteps []string   `gorm:"serializer:json" json:"next_steps"`
	CreatedAt time.Time  `json:"created_at"`
}
