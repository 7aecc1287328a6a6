package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SplitPending = "Pending"
	SplitPaid    = "Paid"
)

type Expense struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HouseholdID uuid.UUID `gorm:"type:uuid;index" json:"household_id"`
	Amount      float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Category    string    `gorm:"not null;size:50" json:"category"` // Rent, Gas, Heat, Water, Internet, Electricity, Groceries, Other
	ExpenseDate time.Time `json:"date"`
	PaidBy      uuid.UUID `gorm:"type:uuid;index" json:"paid_by"`
	Payer       User      `gorm:"foreignKey:PaidBy" json:"payer,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ExpenseSplit is one participant's owed share of an expense. The payer never
// has a split row; paid_to always points back at the payer.
type ExpenseSplit struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExpenseID   uuid.UUID `gorm:"type:uuid;index" json:"expense_id"`
	UserID      uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount      float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaidTo      uuid.UUID `gorm:"type:uuid;index" json:"paid_to"`
	HouseholdID uuid.UUID `gorm:"type:uuid;index" json:"household_id"`
	DueDate     time.Time `json:"due_date"`
	Status      string    `gorm:"not null;size:20;default:Pending" json:"status"` // Pending, Paid
	CreatedAt   time.Time `json:"created_at"`
}

func (es *ExpenseSplit) BeforeCreate(tx *gorm.DB) error {
	if es.ID == uuid.Nil {
		es.ID = uuid.New()
	}
	return nil
}

// Request structs
type CreateExpenseRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Category string  `json:"category" binding:"required,oneof=Rent Gas Heat Water Internet Electricity Groceries Other"`
	Date     string  `json:"date"`     // YYYY-MM-DD, defaults to today
	DueDate  string  `json:"due_date"` // YYYY-MM-DD, defaults to the expense date
}

type UpdateExpenseRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Category string  `json:"category" binding:"required,oneof=Rent Gas Heat Water Internet Electricity Groceries Other"`
	Date     string  `json:"date" binding:"required"`
}

// Response structs
type ExpenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	HouseholdID uuid.UUID       `json:"household_id"`
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	PaidBy      uuid.UUID       `json:"paid_by"`
	PayerName   string          `json:"payer_name"`
	Splits      []SplitResponse `json:"splits"`
	CreatedAt   time.Time       `json:"created_at"`
}

type SplitResponse struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	UserName string    `json:"user_name"`
	Amount   float64   `json:"amount"`
	PaidTo   uuid.UUID `json:"paid_to"`
	DueDate  time.Time `json:"due_date"`
	Status   string    `json:"status"`
}
