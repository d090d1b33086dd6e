package models

import "github.com/fadhlanhapp/splitbill-backend/utils"

// ExpenseShape is the contribution shape of an expense: either an
// ItemizedExpense or a FlatExpense.
type ExpenseShape interface {
	shapeKind() string
}

// ItemizedExpense splits cost by receipt line. The expense-level tax is
// added to the total but not to anyone's share.
type ItemizedExpense struct {
	Items       []ItemLine
	TaxAmount   float64
	TaxIncluded bool
}

// ItemLine is one receipt line owed by a single participant
type ItemLine struct {
	Name          string
	Quantity      int
	Price         float64
	TaxAmount     float64
	ParticipantID string
}

// Subtotal is price × quantity plus the line's own tax
func (l ItemLine) Subtotal() float64 {
	return l.Price*float64(l.Quantity) + l.TaxAmount
}

// FlatExpense splits one amount evenly across ParticipantIDs
type FlatExpense struct {
	Amount         float64
	TaxAmount      float64
	TaxIncluded    bool
	ParticipantIDs []string
}

// Total is the amount when tax is included, amount + tax otherwise
func (f FlatExpense) Total() float64 {
	if f.TaxIncluded {
		return f.Amount
	}
	return f.Amount + f.TaxAmount
}

// BaseAmount is the tax-exclusive amount that gets persisted
func (f FlatExpense) BaseAmount() float64 {
	if f.TaxIncluded {
		return f.Amount - f.TaxAmount
	}
	return f.Amount
}

func (ItemizedExpense) shapeKind() string { return utils.ShapeItemized }
func (FlatExpense) shapeKind() string     { return utils.ShapeFlat }

// ShapeKind returns the tag of a shape
func ShapeKind(shape ExpenseShape) string {
	return shape.shapeKind()
}

// ExpenseContribution is what a single expense costs and who owes it
type ExpenseContribution struct {
	Total                float64            `json:"total"`
	PerParticipantShares map[string]float64 `json:"perParticipantShares"`
}

// SettlementSummary totals every expense on a split bill
type SettlementSummary struct {
	GrandTotal           float64            `json:"grandTotal"`
	PerParticipantTotals map[string]float64 `json:"perParticipantTotals"`
}
