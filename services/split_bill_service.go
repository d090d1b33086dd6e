package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/repository"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

// SplitBillService manages split bills and their participants
type SplitBillService struct {
	bills        *repository.SplitBillRepository
	participants *repository.ParticipantRepository
	users        *repository.UserRepository
	calculator   *CalculationService
	settlement   *SettlementService
}

// NewSplitBillService creates a new split bill service
func NewSplitBillService(
	bills *repository.SplitBillRepository,
	participants *repository.ParticipantRepository,
	users *repository.UserRepository,
	calculator *CalculationService,
	settlement *SettlementService,
) *SplitBillService {
	return &SplitBillService{
		bills:        bills,
		participants: participants,
		users:        users,
		calculator:   calculator,
		settlement:   settlement,
	}
}

// List returns every bill the user created or participates in
func (s *SplitBillService) List(ctx context.Context, userID string) ([]models.SplitBill, error) {
	bills, err := s.bills.ListAccessible(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range bills {
		s.annotate(&bills[i])
	}
	return bills, nil
}

// Create starts a new bill with the creator as its first participant
func (s *SplitBillService) Create(ctx context.Context, userID string, request *models.CreateSplitBillRequest) (*models.SplitBill, error) {
	title := strings.TrimSpace(request.Title)
	if err := utils.ValidateRequired(title, "Title"); err != nil {
		return nil, err
	}

	creator, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var email *string
	if creator != nil {
		email = &creator.Email
	}

	billID := utils.GenerateID()
	bill := &models.SplitBill{
		ID:          billID,
		Title:       title,
		Description: trimmedOrNil(request.Description),
		CreatedByID: userID,
		Participants: []models.Participant{
			*models.NewParticipant(utils.GenerateID(), billID, creator.DisplayName(), email, &userID),
		},
		Expenses: []models.Expense{},
	}
	if err := s.bills.Create(ctx, bill); err != nil {
		return nil, err
	}

	zap.L().Info("split bill created", zap.String("split_bill_id", bill.ID), zap.String("user_id", userID))
	s.annotate(bill)
	return bill, nil
}

// Get returns a bill with its settlement
func (s *SplitBillService) Get(ctx context.Context, userID, billID string) (*models.SplitBillDetail, error) {
	bill, err := s.Load(ctx, userID, billID)
	if err != nil {
		return nil, err
	}
	s.annotate(bill)
	return &models.SplitBillDetail{
		SplitBill:  bill,
		Settlement: s.settlement.BuildView(bill),
	}, nil
}

// Settlement returns only the settlement of a bill
func (s *SplitBillService) Settlement(ctx context.Context, userID, billID string) (*models.SettlementView, error) {
	bill, err := s.Load(ctx, userID, billID)
	if err != nil {
		return nil, err
	}
	return s.settlement.BuildView(bill), nil
}

// AddParticipant adds a registered user (by id) or a named guest to a bill
func (s *SplitBillService) AddParticipant(ctx context.Context, userID, billID string, request *models.AddParticipantRequest) (*models.Participant, error) {
	if _, err := s.Load(ctx, userID, billID); err != nil {
		return nil, err
	}

	var participant *models.Participant
	if request.UserID != nil && strings.TrimSpace(*request.UserID) != "" {
		targetID := strings.TrimSpace(*request.UserID)
		user, err := s.users.FindByID(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, utils.NewNotFoundError("User")
		}

		existing, err := s.participants.FindByBillAndUser(ctx, billID, targetID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, utils.NewBadRequestError(utils.ErrAlreadyParticipant)
		}

		email := user.Email
		participant = models.NewParticipant(utils.GenerateID(), billID, user.Name, &email, &user.ID)
	} else {
		name := strings.TrimSpace(request.Name)
		if name == "" {
			return nil, utils.NewValidationError(utils.ErrGuestNameRequired)
		}
		participant = models.NewParticipant(utils.GenerateID(), billID, name, trimmedOrNil(request.Email), nil)
	}

	if err := s.participants.Create(ctx, participant); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.NewBadRequestError(utils.ErrAlreadyParticipant)
		}
		return nil, err
	}
	return participant, nil
}

// RemoveParticipant removes a participant. Expenses that reference it keep
// the reference.
func (s *SplitBillService) RemoveParticipant(ctx context.Context, userID, billID, participantID string) error {
	if _, err := s.Load(ctx, userID, billID); err != nil {
		return err
	}

	removed, err := s.participants.Delete(ctx, billID, participantID)
	if err != nil {
		return err
	}
	if !removed {
		return utils.NewNotFoundError("Participant")
	}
	return nil
}

// Load returns an accessible bill or the access-denied error
func (s *SplitBillService) Load(ctx context.Context, userID, billID string) (*models.SplitBill, error) {
	bill, err := s.bills.FindAccessible(ctx, billID, userID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, utils.NewAccessDeniedError()
	}
	return bill, nil
}

// annotate fills the computed counts and per-expense totals
func (s *SplitBillService) annotate(bill *models.SplitBill) {
	bill.ParticipantCount = len(bill.Participants)
	bill.ExpenseCount = len(bill.Expenses)
	for i := range bill.Expenses {
		expense := &bill.Expenses[i]
		expense.Total = utils.Round(s.calculator.ComputeExpenseContribution(expense.Shape()).Total)
	}
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
