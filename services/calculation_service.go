package services

import (
	"sort"

	"github.com/fadhlanhapp/splitbill-backend/models"
)

// CalculationService computes what each expense costs and who owes it
type CalculationService struct{}

// NewCalculationService creates a new calculation service
func NewCalculationService() *CalculationService {
	return &CalculationService{}
}

// ComputeExpenseContribution returns an expense's total and each
// participant's share of it.
//
// Itemized: each line's price × quantity + line tax goes to its
// participant; the expense-level tax is added to the total only.
// Flat: the total is divided evenly over the listed participants.
func (s *CalculationService) ComputeExpenseContribution(shape models.ExpenseShape) models.ExpenseContribution {
	shares := make(map[string]float64)

	switch e := shape.(type) {
	case models.ItemizedExpense:
		var total float64
		for _, item := range e.Items {
			subtotal := item.Subtotal()
			shares[item.ParticipantID] += subtotal
			total += subtotal
		}
		return models.ExpenseContribution{
			Total:                total + e.TaxAmount,
			PerParticipantShares: shares,
		}

	case models.FlatExpense:
		total := e.Total()
		if n := len(e.ParticipantIDs); n > 0 {
			share := total / float64(n)
			for _, id := range e.ParticipantIDs {
				shares[id] += share
			}
		}
		return models.ExpenseContribution{
			Total:                total,
			PerParticipantShares: shares,
		}
	}

	return models.ExpenseContribution{PerParticipantShares: shares}
}

// ComputeSettlement folds the contributions of every expense into
// per-participant totals. The grand total is the sum of those totals, so
// itemized expense-level tax is excluded from both.
func (s *CalculationService) ComputeSettlement(shapes []models.ExpenseShape) models.SettlementSummary {
	totals := make(map[string]float64)
	for _, shape := range shapes {
		contribution := s.ComputeExpenseContribution(shape)
		for id, share := range contribution.PerParticipantShares {
			totals[id] += share
		}
	}

	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var grandTotal float64
	for _, id := range ids {
		grandTotal += totals[id]
	}

	return models.SettlementSummary{
		GrandTotal:           grandTotal,
		PerParticipantTotals: totals,
	}
}

// ComputeBillSettlement settles a loaded split bill from a snapshot of its
// expense shapes
func (s *CalculationService) ComputeBillSettlement(bill *models.SplitBill) models.SettlementSummary {
	if bill == nil {
		return s.ComputeSettlement(nil)
	}
	return s.ComputeSettlement(bill.Shapes())
}
