// Package engine implements the purchase-impact projection and the
// dashboard summary. Both are pure functions over an immutable snapshot of
// the user's profile and expenses: no I/O, no clock reads, no shared state.
// Callers supply "now" and guarantee well-formed input (positive amounts,
// due days in 1-31); the engine does not validate.
package engine

import (
	"github.com/shopspring/decimal"

	"github.com/clearspend/finance-service/internal/models"
)

// daysToSimulate is the forward horizon of a purchase simulation
const daysToSimulate = 30

var thirty = decimal.NewFromInt(30)

// sumByType totals the amounts of all expenses of the given type
func sumByType(expenses []models.Expense, t models.ExpenseType) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.Type == t {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// dueOn reports whether a fixed expense falls due on the given day of month
func dueOn(e models.Expense, dayOfMonth int) bool {
	return e.Type == models.ExpenseTypeFixed && e.DueDay != nil && *e.DueDay == dayOfMonth
}

var suggestions = map[models.RiskLevel]string{
	models.RiskHigh:   "This purchase will likely cause you to miss payments. Consider waiting until after your next paycheck.",
	models.RiskMedium: "You can afford this, but it will eat into your safety buffer. Maybe wait a few days?",
	models.RiskLow:    "This looks like a safe purchase! Your finances look healthy.",
}
