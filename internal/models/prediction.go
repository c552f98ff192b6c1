package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskLevel classifies the outcome of a simulation or summary
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// TimelineEntry represents the simulated balance for a single day.
// Event lists the fixed expenses that fired that day, comma-joined in
// input order.
type TimelineEntry struct {
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
	Event   string          `json:"event,omitempty"`
}

// PredictionResult is the complete output of a purchase simulation
type PredictionResult struct {
	FutureBalance         decimal.Decimal `json:"futureBalance"`
	SafetyBufferRemaining decimal.Decimal `json:"safetyBufferRemaining"`
	RiskLevel             RiskLevel       `json:"riskLevel"`
	Warnings              []string        `json:"warnings"`
	Timeline              []TimelineEntry `json:"timeline"`
	Suggestion            string          `json:"suggestion"`
}
