package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/splitbill-backend/middleware"
	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/services"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

// SplitBillHandler handles split bill and participant requests
type SplitBillHandler struct {
	splitBillService *services.SplitBillService
}

// NewSplitBillHandler creates a new split bill handler
func NewSplitBillHandler(splitBillService *services.SplitBillService) *SplitBillHandler {
	return &SplitBillHandler{splitBillService: splitBillService}
}

// List handles GET /api/splitbills
func (h *SplitBillHandler) List(c *gin.Context) {
	bills, err := h.splitBillService.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, gin.H{"splitBills": bills})
}

// Create handles POST /api/splitbills
func (h *SplitBillHandler) Create(c *gin.Context) {
	var request models.CreateSplitBillRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	bill, err := h.splitBillService.Create(c.Request.Context(), middleware.CurrentUserID(c), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, gin.H{"splitBill": bill})
}

// Get handles GET /api/splitbills/:id
func (h *SplitBillHandler) Get(c *gin.Context) {
	detail, err := h.splitBillService.Get(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, detail)
}

// Settlement handles GET /api/splitbills/:id/settlement
func (h *SplitBillHandler) Settlement(c *gin.Context) {
	view, err := h.splitBillService.Settlement(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, view)
}

// AddParticipant handles POST /api/splitbills/:id/participants
func (h *SplitBillHandler) AddParticipant(c *gin.Context) {
	var request models.AddParticipantRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	participant, err := h.splitBillService.AddParticipant(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, gin.H{"participant": participant})
}

// RemoveParticipant handles DELETE /api/splitbills/:id/participants/:participantId
// and the query form ?participantId=
func (h *SplitBillHandler) RemoveParticipant(c *gin.Context) {
	participantID := pathOrQuery(c, "participantId")
	if participantID == "" {
		utils.HandleError(c, utils.NewBadRequestError("Participant ID is required"))
		return
	}

	if err := h.splitBillService.RemoveParticipant(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), participantID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, gin.H{"success": true})
}

func pathOrQuery(c *gin.Context, key string) string {
	if value := strings.TrimSpace(c.Param(key)); value != "" {
		return value
	}
	return strings.TrimSpace(c.Query(key))
}
