package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fadhlanhapp/splitbill-backend/metrics"
	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/repository"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

var expenseDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ExpenseService records and removes expenses on split bills
type ExpenseService struct {
	splitBills *SplitBillService
	expenses   *repository.ExpenseRepository
	calculator *CalculationService
	now        func() time.Time
}

// NewExpenseService creates a new expense service
func NewExpenseService(splitBills *SplitBillService, expenses *repository.ExpenseRepository, calculator *CalculationService) *ExpenseService {
	return &ExpenseService{
		splitBills: splitBills,
		expenses:   expenses,
		calculator: calculator,
		now:        time.Now,
	}
}

// Create validates the request, checks every participant reference against
// the bill, and stores the expense. Nothing is written when any check fails.
func (s *ExpenseService) Create(ctx context.Context, userID, billID string, request *models.CreateExpenseRequest) (*models.Expense, error) {
	bill, err := s.splitBills.Load(ctx, userID, billID)
	if err != nil {
		return nil, err
	}

	shape, err := BuildExpenseShape(request)
	if err != nil {
		return nil, err
	}

	date, err := s.parseDate(request.Date)
	if err != nil {
		return nil, err
	}

	if err := validateReferences(shape, bill.ParticipantIDs()); err != nil {
		return nil, err
	}

	contribution := s.calculator.ComputeExpenseContribution(shape)
	expense := newExpenseRecord(billID, strings.TrimSpace(request.Title), date, trimmedOrNil(request.Description), shape, contribution)

	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, err
	}

	kind := models.ShapeKind(shape)
	metrics.ExpensesCreated.WithLabelValues(kind).Inc()
	zap.L().Info("expense created",
		zap.String("split_bill_id", billID),
		zap.String("expense_id", expense.ID),
		zap.String("shape", kind),
	)

	expense.Total = utils.Round(contribution.Total)
	return expense, nil
}

// CreateFromReceipt records a flat expense from scanned receipt fields
func (s *ExpenseService) CreateFromReceipt(ctx context.Context, userID, billID string, receipt *models.ScannedReceipt, request *models.ScanExpenseRequest) (*models.Expense, error) {
	if receipt.Amount <= 0 {
		return nil, utils.NewValidationError("Could not read an amount from the receipt")
	}

	amount := receipt.Amount
	expenseRequest := &models.CreateExpenseRequest{
		Title:          receipt.Title,
		Amount:         &amount,
		ParticipantIDs: request.ParticipantIDs,
		TaxIncluded:    request.TaxIncluded,
	}
	if receipt.TaxAmount != nil {
		expenseRequest.TaxAmount = *receipt.TaxAmount
	}
	return s.Create(ctx, userID, billID, expenseRequest)
}

// Delete removes an expense from a bill the user can access
func (s *ExpenseService) Delete(ctx context.Context, userID, billID, expenseID string) error {
	if _, err := s.splitBills.Load(ctx, userID, billID); err != nil {
		return err
	}

	found, err := s.expenses.Delete(ctx, billID, expenseID)
	if err != nil {
		return err
	}
	if !found {
		return utils.NewNotFoundError("Expense")
	}
	return nil
}

// BuildExpenseShape validates a create request and returns the contribution
// shape it describes.
func BuildExpenseShape(request *models.CreateExpenseRequest) (models.ExpenseShape, error) {
	if err := utils.ValidateRequired(request.Title, "Title"); err != nil {
		return nil, err
	}
	if err := utils.ValidateNonNegative(request.TaxAmount, "Tax amount"); err != nil {
		return nil, err
	}

	hasItems := len(request.Items) > 0
	hasFlat := request.Amount != nil || len(request.ParticipantIDs) > 0
	switch {
	case hasItems && hasFlat:
		return nil, utils.NewValidationError("Provide either items or amount with participantIds, not both")
	case hasItems:
		return buildItemizedShape(request)
	case hasFlat:
		return buildFlatShape(request)
	default:
		return nil, utils.NewValidationError("Expense requires items or participantIds")
	}
}

func buildItemizedShape(request *models.CreateExpenseRequest) (models.ExpenseShape, error) {
	lines := make([]models.ItemLine, 0, len(request.Items))
	for i, item := range request.Items {
		name := strings.TrimSpace(item.Name)
		participantID := strings.TrimSpace(item.ParticipantID)
		if name == "" || participantID == "" || item.Price == nil || item.Quantity == nil {
			return nil, utils.NewValidationError(fmt.Sprintf("Item %d: %s", i+1, utils.ErrItemFieldsRequired))
		}

		quantity := *item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if err := utils.ValidateQuantity(quantity); err != nil {
			return nil, utils.NewValidationError(fmt.Sprintf("Item %d: %s", i+1, err.Error()))
		}
		if err := utils.ValidateNonNegative(*item.Price, "price"); err != nil {
			return nil, utils.NewValidationError(fmt.Sprintf("Item %d: %s", i+1, err.Error()))
		}
		if err := utils.ValidateNonNegative(item.TaxAmount, "tax amount"); err != nil {
			return nil, utils.NewValidationError(fmt.Sprintf("Item %d: %s", i+1, err.Error()))
		}

		lines = append(lines, models.ItemLine{
			Name:          name,
			Quantity:      quantity,
			Price:         *item.Price,
			TaxAmount:     item.TaxAmount,
			ParticipantID: participantID,
		})
	}

	return models.ItemizedExpense{
		Items:       lines,
		TaxAmount:   request.TaxAmount,
		TaxIncluded: request.TaxIncluded,
	}, nil
}

func buildFlatShape(request *models.CreateExpenseRequest) (models.ExpenseShape, error) {
	if request.Amount == nil {
		return nil, utils.NewValidationError("Amount is required")
	}
	if err := utils.ValidateNonNegative(*request.Amount, "Amount"); err != nil {
		return nil, err
	}

	if err := utils.ValidateParticipantIDs(request.ParticipantIDs); err != nil {
		return nil, err
	}
	participantIDs := utils.UniqueStrings(request.ParticipantIDs)
	if err := utils.ValidateNotEmpty(participantIDs, "participantIds"); err != nil {
		return nil, err
	}
	if request.TaxIncluded && request.TaxAmount > *request.Amount {
		return nil, utils.NewValidationError("Tax amount cannot exceed the amount when tax is included")
	}

	return models.FlatExpense{
		Amount:         *request.Amount,
		TaxAmount:      request.TaxAmount,
		TaxIncluded:    request.TaxIncluded,
		ParticipantIDs: participantIDs,
	}, nil
}

func validateReferences(shape models.ExpenseShape, known map[string]bool) error {
	var referenced []string
	switch e := shape.(type) {
	case models.ItemizedExpense:
		for _, item := range e.Items {
			referenced = append(referenced, item.ParticipantID)
		}
	case models.FlatExpense:
		referenced = e.ParticipantIDs
	}

	for _, id := range referenced {
		if !known[id] {
			return utils.NewValidationError(utils.ErrInvalidParticipants)
		}
	}
	return nil
}

func (s *ExpenseService) parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.now(), nil
	}
	for _, layout := range expenseDateLayouts {
		if date, err := time.Parse(layout, raw); err == nil {
			return date, nil
		}
	}
	return time.Time{}, utils.NewValidationError("Invalid date format")
}

// newExpenseRecord builds the rows to persist. Expense-participant rows hold
// each participant's share, in first-seen order.
func newExpenseRecord(billID, title string, date time.Time, description *string, shape models.ExpenseShape, contribution models.ExpenseContribution) *models.Expense {
	expenseID := utils.GenerateID()
	expense := &models.Expense{
		ID:          expenseID,
		SplitBillID: billID,
		Kind:        models.ShapeKind(shape),
		Title:       title,
		Date:        date,
		Description: description,
	}

	var order []string
	switch e := shape.(type) {
	case models.ItemizedExpense:
		expense.TaxAmount = e.TaxAmount
		expense.TaxIncluded = e.TaxIncluded
		expense.Items = make([]models.ExpenseItem, 0, len(e.Items))
		seen := make(map[string]bool)
		for _, line := range e.Items {
			expense.Amount += line.Subtotal()
			expense.Items = append(expense.Items, models.ExpenseItem{
				ID:            utils.GenerateID(),
				ExpenseID:     expenseID,
				Name:          line.Name,
				Quantity:      line.Quantity,
				Price:         line.Price,
				TaxAmount:     line.TaxAmount,
				ParticipantID: line.ParticipantID,
			})
			if !seen[line.ParticipantID] {
				seen[line.ParticipantID] = true
				order = append(order, line.ParticipantID)
			}
		}
	case models.FlatExpense:
		expense.Amount = e.BaseAmount()
		expense.TaxAmount = e.TaxAmount
		expense.TaxIncluded = e.TaxIncluded
		order = e.ParticipantIDs
	}

	expense.Participants = make([]models.ExpenseParticipant, 0, len(order))
	for _, participantID := range order {
		expense.Participants = append(expense.Participants, models.ExpenseParticipant{
			ID:            utils.GenerateID(),
			ExpenseID:     expenseID,
			ParticipantID: participantID,
			Amount:        contribution.PerParticipantShares[participantID],
		})
	}
	return expense
}
