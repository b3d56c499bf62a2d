package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User mirrors the identity provider's account record. Only the fields the
// case workflow reads are kept; credentials live with the provider.
type User struct {
	ID        string        `gorm:"primaryKey;size:36" json:"id"`
	Name      string        `gorm:"size:120" json:"name"`
	Email     string        `gorm:"size:255;index" json:"email,omitempty"`
	Role      Role          `gorm:"size:16;not null;default:PUBLIC" json:"role"`
	Status    AccountStatus `gorm:"size:16;not null;default:PENDING" json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// BeforeCreate generates a UUID when the ID has not been set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

