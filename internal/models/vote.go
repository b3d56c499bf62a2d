package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote is one user's stance on one case. The composite unique index makes
// a second row for the same (user, case) pair impossible at the database level.
type Vote struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_votes_user_case" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	CaseID    string    `gorm:"size:36;not null;uniqueIndex:idx_votes_user_case;index" json:"caseId"`
	Case      *Case     `gorm:"foreignKey:CaseID" json:"-"`
	VoteType  VoteType  `gorm:"size:16;not null" json:"voteType"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return
}
