// repository/split_bill_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fadhlanhapp/splitbill-backend/models"
)

// accessClause limits split bills to those created by, or shared with, a user
const accessClause = "(split_bills.created_by_id = ? OR EXISTS (SELECT 1 FROM split_bill_participants p WHERE p.split_bill_id = split_bills.id AND p.user_id = ?))"

// SplitBillRepository handles database operations for split bills
type SplitBillRepository struct {
	DB *gorm.DB
}

// NewSplitBillRepository creates a new SplitBillRepository
func NewSplitBillRepository(db *gorm.DB) *SplitBillRepository {
	return &SplitBillRepository{DB: db}
}

// Create saves a split bill together with its initial participants
func (r *SplitBillRepository) Create(ctx context.Context, bill *models.SplitBill) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		participants := bill.Participants
		if err := tx.Omit("Participants", "Expenses", "Creator").Create(bill).Error; err != nil {
			return fmt.Errorf("failed to insert split bill: %w", err)
		}
		if len(participants) > 0 {
			if err := tx.Omit("User").Create(&participants).Error; err != nil {
				return fmt.Errorf("failed to insert split bill participant: %w", err)
			}
		}
		return nil
	})
	return err
}

// ListAccessible returns every bill the user can see, most recently updated first
func (r *SplitBillRepository) ListAccessible(ctx context.Context, userID string) ([]models.SplitBill, error) {
	var bills []models.SplitBill
	err := r.withDetails(r.DB.WithContext(ctx)).
		Where(accessClause, userID, userID).
		Order("split_bills.updated_at DESC").
		Find(&bills).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list split bills: %w", err)
	}
	return bills, nil
}

// FindAccessible returns the bill with participants and expenses loaded, or
// nil when it does not exist or the user cannot see it.
func (r *SplitBillRepository) FindAccessible(ctx context.Context, id, userID string) (*models.SplitBill, error) {
	var bill models.SplitBill
	err := r.withDetails(r.DB.WithContext(ctx)).
		Where("split_bills.id = ?", id).
		Where(accessClause, userID, userID).
		First(&bill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split bill: %w", err)
	}
	return &bill, nil
}

func (r *SplitBillRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Creator").
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Participants.User").
		Preload("Expenses", func(db *gorm.DB) *gorm.DB {
			return db.Order("date DESC, created_at DESC")
		}).
		Preload("Expenses.Items").
		Preload("Expenses.Participants")
}
