package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case is a submitted incident report backed by an official reference.
// SupportCount and OpposeCount are denormalized tallies of the case's Vote
// rows and are only ever changed in the same transaction as those rows.
type Case struct {
	ID              string       `gorm:"primaryKey;size:36" json:"id"`
	Title           string       `gorm:"size:255;not null" json:"title"`
	Description     string       `gorm:"type:text;not null" json:"description"`
	Category        CaseCategory `gorm:"size:32;not null;index" json:"category"`
	Location        string       `gorm:"size:255;not null;index" json:"location"`
	ReferenceNumber string       `gorm:"size:128;index" json:"referenceNumber"`
	SourceURL       *string      `gorm:"size:2048" json:"sourceUrl"`
	MainImage       *string      `gorm:"size:2048" json:"mainImage"`
	GroundStatus    *string      `gorm:"type:text" json:"groundStatus"`
	// Documents keeps attachment references in upload order.
	Documents []string   `gorm:"type:text;serializer:json" json:"documents"`
	Status    CaseStatus `gorm:"size:32;not null;index;default:PENDING_REVIEW" json:"status"`

	SupportCount int `gorm:"not null;default:0;index" json:"supportCount"`
	OpposeCount  int `gorm:"not null;default:0" json:"opposeCount"`

	CreatedByID  string  `gorm:"size:36;not null;index" json:"createdById"`
	CreatedBy    *User   `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	VerifiedByID *string `gorm:"size:36" json:"verifiedById"`
	VerifiedBy   *User   `gorm:"foreignKey:VerifiedByID" json:"verifiedBy,omitempty"`

	Updates        []CaseUpdate    `gorm:"foreignKey:CaseID" json:"updates,omitempty"`
	LawyerComments []LawyerComment `gorm:"foreignKey:CaseID" json:"lawyerComments,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Case) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = StatusPendingReview
	}
	return
}

// CaseUpdate is an append-only timeline entry.
type CaseUpdate struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	CaseID      string     `gorm:"size:36;not null;index" json:"caseId"`
	UpdateText  string     `gorm:"type:text;not null" json:"updateText"`
	UpdateType  UpdateType `gorm:"size:32;not null" json:"updateType"`
	CreatedByID string     `gorm:"size:36;not null;index" json:"createdById"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
}

func (u *CaseUpdate) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// LawyerComment is legal commentary attached to a case by a LAWYER.
type LawyerComment struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	CaseID      string    `gorm:"size:36;not null;index" json:"caseId"`
	LawyerID    string    `gorm:"size:36;not null;index" json:"lawyerId"`
	Lawyer      *User     `gorm:"foreignKey:LawyerID" json:"lawyer,omitempty"`
	Explanation string    `gorm:"type:text;not null" json:"explanation"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
}

func (l *LawyerComment) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return
}
