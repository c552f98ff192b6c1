package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseType distinguishes recurring bills from averaged discretionary spend
type ExpenseType string

const (
	ExpenseTypeFixed    ExpenseType = "fixed"
	ExpenseTypeVariable ExpenseType = "variable"
)

// Expense represents a single monthly expense owned by a user.
// Fixed expenses carry a DueDay (1-31); variable expenses represent an
// average monthly spend with no due day.
type Expense struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Category   string          `json:"category"`
	Type       ExpenseType     `json:"type"`
	Frequency  *string         `json:"frequency,omitempty"` // e.g. "monthly"
	DueDay     *int            `json:"due_day,omitempty"`   // 1-31
	LastPaidAt *time.Time      `json:"last_paid_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
