package models

import "github.com/shopspring/decimal"

// FinancialSummary is an instantaneous financial health snapshot for the
// dashboard. It is recomputed on every read, never cached.
type FinancialSummary struct {
	TotalBalance          decimal.Decimal `json:"totalBalance"`
	SafeToSpend           decimal.Decimal `json:"safeToSpend"`
	TotalFixedExpenses    decimal.Decimal `json:"totalFixedExpenses"`
	TotalVariableExpenses decimal.Decimal `json:"totalVariableExpenses"`
	DaysUntilNextBill     int             `json:"daysUntilNextBill"`
	NextBillName          string          `json:"nextBillName"`
	NextBillAmount        decimal.Decimal `json:"nextBillAmount"`
	RiskLevel             RiskLevel       `json:"riskLevel"`
}
