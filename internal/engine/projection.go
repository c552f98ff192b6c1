package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearspend/finance-service/internal/models"
)

// Project runs a 30-day forward simulation of the user's balance after a
// hypothetical purchase and classifies the risk of making it.
//
// The timeline holds 31 entries: day 0 (balance immediately after the
// purchase, no event) plus one entry per simulated day. Each simulated day
// first bleeds the daily variable burn (monthly variable total / 30, a
// constant rate), then pays every fixed expense whose due day matches the
// simulated day of month, in input order. Warnings are evaluated after each
// individual payment: a buffer warning when 0 <= balance < emergencyBuffer,
// a critical warning when balance < 0.
//
// Precondition: purchaseAmount > 0 is enforced by the caller, not here.
func Project(now time.Time, currentBalance, emergencyBuffer, purchaseAmount decimal.Decimal, expenses []models.Expense) models.PredictionResult {
	balance := currentBalance.Sub(purchaseAmount)

	timeline := make([]models.TimelineEntry, 0, daysToSimulate+1)
	timeline = append(timeline, models.TimelineEntry{Date: now, Balance: balance.Round(2)})

	dailyBurn := sumByType(expenses, models.ExpenseTypeVariable).Div(thirty)

	warnings := make([]string, 0)
	seen := make(map[string]struct{})
	addWarning := func(msg string) {
		if _, ok := seen[msg]; ok {
			return
		}
		seen[msg] = struct{}{}
		warnings = append(warnings, msg)
	}

	for i := 1; i <= daysToSimulate; i++ {
		simDate := now.AddDate(0, 0, i)
		dayOfMonth := simDate.Day()

		balance = balance.Sub(dailyBurn)

		var events []string
		for _, e := range expenses {
			if !dueOn(e, dayOfMonth) {
				continue
			}
			balance = balance.Sub(e.Amount)
			events = append(events, e.Name)

			if balance.IsNegative() {
				addWarning(fmt.Sprintf("CRITICAL: On %s, you may not be able to pay for %s.",
					simDate.Format("2006-01-02"), e.Name))
			} else if balance.LessThan(emergencyBuffer) {
				addWarning(fmt.Sprintf("Warning: On %s, payment for %s will use your safety buffer.",
					simDate.Format("2006-01-02"), e.Name))
			}
		}

		timeline = append(timeline, models.TimelineEntry{
			Date:    simDate,
			Balance: balance.Round(2),
			Event:   strings.Join(events, ", "),
		})
	}

	riskLevel := models.RiskLow
	if balance.IsNegative() {
		riskLevel = models.RiskHigh
	} else if balance.LessThan(emergencyBuffer) {
		riskLevel = models.RiskMedium
	}

	return models.PredictionResult{
		FutureBalance:         balance.Round(2),
		SafetyBufferRemaining: balance.Sub(emergencyBuffer).Round(2),
		RiskLevel:             riskLevel,
		Warnings:              warnings,
		Timeline:              timeline,
		Suggestion:            suggestions[riskLevel],
	}
}
