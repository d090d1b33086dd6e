// repository/expense_repository.go
package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fadhlanhapp/splitbill-backend/models"
)

// ExpenseRepository handles database operations for expenses
type ExpenseRepository struct {
	DB *gorm.DB
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{DB: db}
}

// Create saves an expense with its items and participant amounts, and bumps
// the bill's updated_at, in one transaction
func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(expense).Error; err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		if len(expense.Items) > 0 {
			if err := tx.Create(&expense.Items).Error; err != nil {
				return fmt.Errorf("failed to insert expense item: %w", err)
			}
		}

		if len(expense.Participants) > 0 {
			if err := tx.Create(&expense.Participants).Error; err != nil {
				return fmt.Errorf("failed to insert expense participant: %w", err)
			}
		}
		return touchSplitBill(tx, expense.SplitBillID)
	})
}

// Delete removes an expense and its rows. It reports false when the expense
// does not exist or belongs to another bill.
func (r *ExpenseRepository) Delete(ctx context.Context, splitBillID, expenseID string) (bool, error) {
	found := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Expense{}).
			Where("id = ? AND split_bill_id = ?", expenseID, splitBillID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check expense: %w", err)
		}
		if count == 0 {
			return nil
		}

		if err := tx.Where("expense_id = ?", expenseID).Delete(&models.ExpenseItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete expense items: %w", err)
		}
		if err := tx.Where("expense_id = ?", expenseID).Delete(&models.ExpenseParticipant{}).Error; err != nil {
			return fmt.Errorf("failed to delete expense participants: %w", err)
		}
		if err := tx.Where("id = ?", expenseID).Delete(&models.Expense{}).Error; err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		found = true
		return touchSplitBill(tx, splitBillID)
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func touchSplitBill(tx *gorm.DB, splitBillID string) error {
	err := tx.Model(&models.SplitBill{}).
		Where("id = ?", splitBillID).
		Update("updated_at", time.Now()).Error
	if err != nil {
		return fmt.Errorf("failed to update split bill: %w", err)
	}
	return nil
}
