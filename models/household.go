package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Household struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"not null;size:100" json:"name"`
	GroupPhoto string    `json:"group_photo,omitempty"`
	AdminID    uuid.UUID `gorm:"type:uuid;index" json:"admin_id"`
	Admin      User      `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (h *Household) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// HouseholdMember holds the non-admin members; the admin is implicit in the
// participant set and never has a member row.
type HouseholdMember struct {
	HouseholdID uuid.UUID `gorm:"type:uuid;primaryKey" json:"household_id"`
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	JoinedAt    time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// Request structs
type CreateHouseholdRequest struct {
	Name       string   `json:"name" binding:"required"`
	GroupPhoto string   `json:"group_photo"`
	Members    []string `json:"members"` // member emails
}

type MemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Response structs
type HouseholdMemberResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Role         string    `json:"role"` // admin, member
}

type HouseholdResponse struct {
	ID         uuid.UUID                 `json:"id"`
	Name       string                    `json:"name"`
	GroupPhoto string                    `json:"group_photo,omitempty"`
	AdminID    uuid.UUID                 `json:"admin_id"`
	Members    []HouseholdMemberResponse `json:"members"`
	CreatedAt  time.Time                 `json:"created_at"`
}

// DashboardMember is a household member annotated with how much they
// currently owe the requesting user (pending splits only).
type DashboardMember struct {
	HouseholdMemberResponse
	AmountOwedToCurrentUser float64 `json:"amount_owed_to_current_user"`
}

type DashboardHousehold struct {
	ID         uuid.UUID         `json:"id"`
	Name       string            `json:"name"`
	GroupPhoto string            `json:"group_photo,omitempty"`
	AdminID    uuid.UUID         `json:"admin_id"`
	Members    []DashboardMember `json:"members"`
	CreatedAt  time.Time         `json:"created_at"`
}
