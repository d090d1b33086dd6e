package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/splitbill-backend/middleware"
	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/services"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

// ExpenseHandler handles expense requests
type ExpenseHandler struct {
	expenseService *services.ExpenseService
	receiptService *services.ReceiptService
	maxUploadBytes int64
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *services.ExpenseService, receiptService *services.ReceiptService, maxUploadBytes int64) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		receiptService: receiptService,
		maxUploadBytes: maxUploadBytes,
	}
}

// Create handles POST /api/splitbills/:id/expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	var request models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, gin.H{"expense": expense})
}

// CreateFromReceipt handles POST /api/splitbills/:id/expenses/scan. The
// receipt's title, amount and tax become a flat expense split between
// the comma-separated participantIds form field.
func (h *ExpenseHandler) CreateFromReceipt(c *gin.Context) {
	image, mediaType, err := readReceiptUpload(c, h.maxUploadBytes)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	taxIncluded, _ := strconv.ParseBool(c.PostForm("taxIncluded"))
	scanRequest := &models.ScanExpenseRequest{
		ParticipantIDs: strings.Split(c.PostForm("participantIds"), ","),
		TaxIncluded:    taxIncluded,
	}

	receipt, err := h.receiptService.Scan(c.Request.Context(), image, mediaType)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	expense, err := h.expenseService.CreateFromReceipt(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), receipt, scanRequest)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, gin.H{"expense": expense, "receipt": receipt})
}

// Delete handles DELETE /api/splitbills/:id/expenses/:expenseId and the
// query form ?expenseId=
func (h *ExpenseHandler) Delete(c *gin.Context) {
	expenseID := pathOrQuery(c, "expenseId")
	if expenseID == "" {
		utils.HandleError(c, utils.NewBadRequestError("Expense ID is required"))
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), expenseID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, gin.H{"success": true})
}
