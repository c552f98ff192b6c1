package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearspend/finance-service/internal/models"
)

// Summarize computes an instantaneous financial health snapshot. Unlike
// Project it does not simulate time: it looks only at current totals and at
// fixed-expense due days relative to today's day of month.
//
// Safe-to-spend reserves the emergency buffer and fixed obligations but not
// variable spend, clamped at zero. A due day equal to today counts as 30
// days out, never zero.
func Summarize(now time.Time, currentBalance, emergencyBuffer decimal.Decimal, expenses []models.Expense) models.FinancialSummary {
	totalFixed := sumByType(expenses, models.ExpenseTypeFixed)
	totalVariable := sumByType(expenses, models.ExpenseTypeVariable)

	safeToSpend := currentBalance.Sub(emergencyBuffer).Sub(totalFixed)
	if safeToSpend.IsNegative() {
		safeToSpend = decimal.Zero
	}
	safeToSpend = safeToSpend.Round(2)

	today := now.Day()
	var upcoming []models.Expense
	for _, e := range expenses {
		if e.Type == models.ExpenseTypeFixed && e.DueDay != nil {
			upcoming = append(upcoming, e)
		}
	}
	// Stable: ties keep input order
	sort.SliceStable(upcoming, func(i, j int) bool {
		return daysUntil(*upcoming[i].DueDay, today) < daysUntil(*upcoming[j].DueDay, today)
	})

	nextBillName := "None"
	nextBillAmount := decimal.Zero
	daysUntilNextBill := 0
	if len(upcoming) > 0 {
		next := upcoming[0]
		nextBillName = next.Name
		nextBillAmount = next.Amount
		daysUntilNextBill = daysUntil(*next.DueDay, today)
	}

	riskLevel := models.RiskLow
	if currentBalance.LessThan(totalFixed) {
		riskLevel = models.RiskHigh
	} else if safeToSpend.LessThan(totalVariable.Div(decimal.NewFromInt(2))) {
		riskLevel = models.RiskMedium
	}

	return models.FinancialSummary{
		TotalBalance:          currentBalance,
		SafeToSpend:           safeToSpend,
		TotalFixedExpenses:    totalFixed,
		TotalVariableExpenses: totalVariable,
		DaysUntilNextBill:     daysUntilNextBill,
		NextBillName:          nextBillName,
		NextBillAmount:        nextBillAmount,
		RiskLevel:             riskLevel,
	}
}

// daysUntil maps a due day of month to days from today on a 30-day wheel.
// A due day landing on today wraps to 30, never 0.
func daysUntil(dueDay, today int) int {
	d := ((dueDay - today) + 30) % 30
	if d == 0 {
		return 30
	}
	return d
}
