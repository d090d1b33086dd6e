package handlers

import (
	"github.com/fadhlanhapp/splitbill-backend/config"
	"github.com/fadhlanhapp/splitbill-backend/services"
)

// Handlers contains every HTTP handler group
type Handlers struct {
	Auth      *AuthHandler
	Users     *UserHandler
	SplitBill *SplitBillHandler
	Expense   *ExpenseHandler
	Receipt   *ReceiptHandler
	Excel     *ExcelHandler
}

// Services contains all service dependencies
type Services struct {
	Auth       *services.AuthService
	Users      *services.UserService
	SplitBills *services.SplitBillService
	Expenses   *services.ExpenseService
	Receipts   *services.ReceiptService
	Excel      *services.ExcelService
}

// NewHandlers wires handler groups to their services
func NewHandlers(svc *Services, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:      NewAuthHandler(svc.Auth, cfg.Auth),
		Users:     NewUserHandler(svc.Users),
		SplitBill: NewSplitBillHandler(svc.SplitBills),
		Expense:   NewExpenseHandler(svc.Expenses, svc.Receipts, cfg.MaxUploadBytes),
		Receipt:   NewReceiptHandler(svc.Receipts, cfg.MaxUploadBytes),
		Excel:     NewExcelHandler(svc.Excel),
	}
}
