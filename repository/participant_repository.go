// repository/participant_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fadhlanhapp/splitbill-backend/models"
)

// ParticipantRepository handles database operations for split bill participants
type ParticipantRepository struct {
	DB *gorm.DB
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{DB: db}
}

// Create saves a participant and bumps the bill's updated_at. A second row
// for the same account on a bill fails with ErrDuplicate.
func (r *ParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Create(participant).Error; err != nil {
			if isDuplicateKey(err) {
				return fmt.Errorf("participant for user on bill %s: %w", participant.SplitBillID, ErrDuplicate)
			}
			return fmt.Errorf("failed to insert participant: %w", err)
		}
		return touchSplitBill(tx, participant.SplitBillID)
	})
}

// FindByBillAndUser returns the registered participant for userID on a bill, or nil
func (r *ParticipantRepository) FindByBillAndUser(ctx context.Context, splitBillID, userID string) (*models.Participant, error) {
	var participant models.Participant
	err := r.DB.WithContext(ctx).
		Where("split_bill_id = ? AND user_id = ?", splitBillID, userID).
		First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return &participant, nil
}

// Delete removes a participant from a bill. Expense rows that reference it
// are left untouched.
func (r *ParticipantRepository) Delete(ctx context.Context, splitBillID, participantID string) (bool, error) {
	found := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND split_bill_id = ?", participantID, splitBillID).
			Delete(&models.Participant{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete participant: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}
		found = true
		return touchSplitBill(tx, splitBillID)
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
