package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a user profile in the system
type User struct {
	ID              uuid.UUID       `json:"id"`
	Email           string          `json:"email"`
	PasswordHash    string          `json:"-"` // Not serialized
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	MonthlyIncome   decimal.Decimal `json:"monthly_income"`
	EmergencyBuffer decimal.Decimal `json:"emergency_buffer"`
	Currency        string          `json:"currency"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
