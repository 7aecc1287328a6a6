package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	UserInvited = "invited"
	UserActive  = "active"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:100" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	GoogleID     string    `gorm:"size:255" json:"-"`
	ProfileImage string    `json:"profile_image,omitempty"`
	FCMToken     string    `json:"-"`
	Status       string    `gorm:"not null;size:20" json:"status"` // invited, active
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
		Status:       u.Status,
		CreatedAt:    u.CreatedAt,
	}
}
