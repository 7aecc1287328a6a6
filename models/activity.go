package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActivityPending   = "Pending"
	ActivityCompleted = "Completed"
	ActivityFailed    = "Failed"

	MethodPayPal = "PayPal"
)

// Activity records one settlement attempt against a split.
type Activity struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PayerID        uuid.UUID `gorm:"type:uuid;index" json:"payer_id"`
	Payer          User      `gorm:"foreignKey:PayerID" json:"payer,omitempty"`
	ReceiverID     uuid.UUID `gorm:"type:uuid" json:"receiver_id"`
	Receiver       User      `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	ExpenseSplitID uuid.UUID `gorm:"type:uuid;index" json:"expense_split_id"`
	Amount         float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	HouseholdID    uuid.UUID `gorm:"type:uuid;index" json:"household_id"`
	Method         string    `gorm:"not null;size:20" json:"method"`
	Status         string    `gorm:"not null;size:20;default:Pending" json:"status"` // Pending, Completed, Failed
	OrderID        string    `gorm:"index;size:64" json:"order_id,omitempty"`
	Date           time.Time `json:"date"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Date.IsZero() {
		a.Date = time.Now()
	}
	return nil
}

type InitiatePaymentRequest struct {
	ReceiverID  string  `json:"receiver_id" binding:"required"`
	SplitID     string  `json:"split_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	HouseholdID string  `json:"household_id" binding:"required"`
}
