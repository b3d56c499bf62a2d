package models

import "time"

// CaseEvent is published to the case event channel after a committed change.
type CaseEvent struct {
	Type     string     `json:"type"` // "case_created", "case_status", "vote_changed"
	CaseID   string     `json:"case_id"`
	ActorID  string     `json:"actor_id"`
	Status   CaseStatus `json:"status,omitempty"`
	Support  int        `json:"support_count"`
	Oppose   int        `json:"oppose_count"`
	Occurred time.Time  `json:"occurred_at"`
}

const (
	EventCaseCreated = "case_created"
	EventCaseStatus  = "case_status"
	EventVoteChanged = "vote_changed"
)
