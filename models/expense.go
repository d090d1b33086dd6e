package models

import (
	"time"

	"github.com/fadhlanhapp/splitbill-backend/utils"
)

// Expense is a cost recorded against a split bill. Kind tags which of the
// two contribution shapes the stored rows describe.
type Expense struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	SplitBillID string    `gorm:"type:varchar(36);index;not null" json:"splitBillId"`
	Kind        string    `gorm:"type:varchar(16);not null;default:flat" json:"kind"`
	Title       string    `gorm:"not null" json:"title"`
	Date        time.Time `json:"date"`

	// Amount is the tax-exclusive base for flat expenses and the item
	// subtotal sum for itemized ones.
	Amount       float64              `gorm:"not null" json:"amount"`
	TaxAmount    float64              `gorm:"not null;default:0" json:"taxAmount"`
	TaxIncluded  bool                 `gorm:"not null;default:false" json:"taxIncluded"`
	Description  *string              `json:"description"`
	Items        []ExpenseItem        `gorm:"foreignKey:ExpenseID" json:"items"`
	Participants []ExpenseParticipant `gorm:"foreignKey:ExpenseID" json:"participants"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`

	Total float64 `gorm:"-" json:"total"`
}

// ExpenseItem is one receipt line assigned to a single participant.
// ParticipantID is not a foreign key: removing a participant leaves the
// reference in place.
type ExpenseItem struct {
	ID            string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	ExpenseID     string  `gorm:"type:varchar(36);index;not null" json:"expenseId"`
	Name          string  `gorm:"not null" json:"name"`
	Quantity      int     `gorm:"not null" json:"quantity"`
	Price         float64 `gorm:"not null" json:"price"`
	TaxAmount     float64 `gorm:"not null;default:0" json:"taxAmount"`
	ParticipantID string  `gorm:"type:varchar(36);index;not null" json:"participantId"`
}

// ExpenseParticipant records the amount a participant owes for an expense.
// For flat expenses these rows are also the list of people splitting it.
type ExpenseParticipant struct {
	ID            string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	ExpenseID     string  `gorm:"type:varchar(36);index;not null" json:"expenseId"`
	ParticipantID string  `gorm:"type:varchar(36);index;not null" json:"participantId"`
	Amount        float64 `gorm:"not null" json:"amount"`
}

// Shape rebuilds the contribution shape from the stored rows
func (e *Expense) Shape() ExpenseShape {
	if e.Kind == utils.ShapeItemized {
		lines := make([]ItemLine, 0, len(e.Items))
		for _, item := range e.Items {
			lines = append(lines, ItemLine{
				Name:          item.Name,
				Quantity:      item.Quantity,
				Price:         item.Price,
				TaxAmount:     item.TaxAmount,
				ParticipantID: item.ParticipantID,
			})
		}
		return ItemizedExpense{Items: lines, TaxAmount: e.TaxAmount, TaxIncluded: e.TaxIncluded}
	}

	ids := make([]string, 0, len(e.Participants))
	for _, p := range e.Participants {
		ids = append(ids, p.ParticipantID)
	}
	amount := e.Amount
	if e.TaxIncluded {
		amount += e.TaxAmount
	}
	return FlatExpense{
		Amount:         amount,
		TaxAmount:      e.TaxAmount,
		TaxIncluded:    e.TaxIncluded,
		ParticipantIDs: ids,
	}
}
