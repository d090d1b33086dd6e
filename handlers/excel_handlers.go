package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fadhlanhapp/splitbill-backend/logging"
	"github.com/fadhlanhapp/splitbill-backend/middleware"
	"github.com/fadhlanhapp/splitbill-backend/services"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

// ExcelHandler handles spreadsheet exports
type ExcelHandler struct {
	excelService *services.ExcelService
}

// NewExcelHandler creates a new Excel handler
func NewExcelHandler(excelService *services.ExcelService) *ExcelHandler {
	return &ExcelHandler{excelService: excelService}
}

// Export handles GET /api/splitbills/:id/export
func (h *ExcelHandler) Export(c *gin.Context) {
	excelFile, filename, err := h.excelService.ExportSplitBill(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer excelFile.Close()

	// Set headers for file download
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Content-Transfer-Encoding", "binary")

	// Headers are already sent, so a write failure can only be logged
	if err := excelFile.Write(c.Writer); err != nil {
		zap.L().Error("failed to write excel export",
			zap.String("request_id", logging.RequestID(c)),
			zap.String("split_bill_id", c.Param("id")),
			zap.Error(err),
		)
	}
}
