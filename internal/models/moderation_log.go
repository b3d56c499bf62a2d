package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModerationLog is the append-only audit trail of moderator actions.
// TargetID is a case ID or a user ID depending on ActionType.
type ModerationLog struct {
	ID            string           `gorm:"primaryKey;size:36" json:"id"`
	ActionType    ModerationAction `gorm:"size:32;not null;index" json:"actionType"`
	PerformedByID string           `gorm:"size:36;not null;index" json:"performedById"`
	PerformedBy   *User            `gorm:"foreignKey:PerformedByID" json:"performedBy,omitempty"`
	TargetID      string           `gorm:"size:36;not null;index" json:"targetId"`
	Reason        *string          `gorm:"type:text" json:"reason"`
	CreatedAt     time.Time        `gorm:"index" json:"createdAt"`
}

func (m *ModerationLog) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
