package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

const (
	summarySheet  = "Summary"
	expensesSheet = "Expenses"
)

// ExcelService handles Excel export functionality
type ExcelService struct {
	splitBills *SplitBillService
	calculator *CalculationService
	settlement *SettlementService
}

// NewExcelService creates a new Excel service
func NewExcelService(splitBills *SplitBillService, calculator *CalculationService, settlement *SettlementService) *ExcelService {
	return &ExcelService{
		splitBills: splitBills,
		calculator: calculator,
		settlement: settlement,
	}
}

// ExportSplitBill builds a workbook with the settlement summary and a
// per-expense share matrix
func (s *ExcelService) ExportSplitBill(ctx context.Context, userID, billID string) (*excelize.File, string, error) {
	bill, err := s.splitBills.Load(ctx, userID, billID)
	if err != nil {
		return nil, "", err
	}

	view := s.settlement.BuildView(bill)

	f := excelize.NewFile()
	if err := s.createSummarySheet(f, view); err != nil {
		f.Close()
		return nil, "", fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := s.createExpensesSheet(f, bill, view.Participants); err != nil {
		f.Close()
		return nil, "", fmt.Errorf("failed to create expenses sheet: %w", err)
	}

	// Delete the default sheet
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, "", fmt.Errorf("failed to delete default sheet: %w", err)
	}
	if index, err := f.GetSheetIndex(summarySheet); err == nil {
		f.SetActiveSheet(index)
	}

	filename := fmt.Sprintf("%s_Export_%s.xlsx",
		utils.CleanFileName(bill.Title),
		time.Now().Format("2006-01-02"))

	return f, filename, nil
}

// createSummarySheet lists what each participant owes, then the grand total
func (s *ExcelService) createSummarySheet(f *excelize.File, view *models.SettlementView) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	headers := []string{"Participant", "Total Owed"}
	if err := writeHeaderRow(f, summarySheet, headers); err != nil {
		return err
	}

	for i, row := range view.Participants {
		if err := writeRow(f, summarySheet, i+2, row.Name, row.Total); err != nil {
			return err
		}
	}

	totalRow := len(view.Participants) + 3
	if err := writeRow(f, summarySheet, totalRow, "Grand Total", view.GrandTotal); err != nil {
		return err
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("B%d", totalRow), boldStyle); err != nil {
		return err
	}

	return f.SetColWidth(summarySheet, "A", "B", 20)
}

// createExpensesSheet writes one row per expense with each participant's share
func (s *ExcelService) createExpensesSheet(f *excelize.File, bill *models.SplitBill, participants []models.ParticipantTotal) error {
	if _, err := f.NewSheet(expensesSheet); err != nil {
		return err
	}

	headers := []string{"Date", "Title", "Type", "Total"}
	for _, p := range participants {
		headers = append(headers, p.Name)
	}
	if err := writeHeaderRow(f, expensesSheet, headers); err != nil {
		return err
	}

	for i := range bill.Expenses {
		expense := &bill.Expenses[i]
		contribution := s.calculator.ComputeExpenseContribution(expense.Shape())

		values := []interface{}{
			expense.Date.Format("2006-01-02"),
			expense.Title,
			expense.Kind,
			utils.Round(contribution.Total),
		}
		for _, p := range participants {
			values = append(values, utils.Round(contribution.PerParticipantShares[p.ParticipantID]))
		}
		if err := writeRow(f, expensesSheet, i+2, values...); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(expensesSheet, "A", lastCol, 14); err != nil {
		return err
	}
	// Title column wider
	return f.SetColWidth(expensesSheet, "B", "B", 28)
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) error {
	values := make([]interface{}, len(headers))
	for i, header := range headers {
		values[i] = header
	}
	if err := writeRow(f, sheet, 1, values...); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	lastCell, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", lastCell, headerStyle)
}

func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
