// handlers/receipt_handlers.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fadhlanhapp/splitbill-backend/services"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

// ReceiptHandler handles receipt scanning requests
type ReceiptHandler struct {
	receiptService *services.ReceiptService
	maxUploadBytes int64
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *services.ReceiptService, maxUploadBytes int64) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService, maxUploadBytes: maxUploadBytes}
}

// Scan handles POST /api/receipts/scan
func (h *ReceiptHandler) Scan(c *gin.Context) {
	image, mediaType, err := readReceiptUpload(c, h.maxUploadBytes)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	receipt, err := h.receiptService.Scan(c.Request.Context(), image, mediaType)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, gin.H{"receipt": receipt})
}

// readReceiptUpload reads the multipart "receipt" file and checks its type
func readReceiptUpload(c *gin.Context, maxBytes int64) ([]byte, string, error) {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	}

	file, header, err := c.Request.FormFile("receipt")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", utils.NewBadRequestError(fmt.Sprintf("File exceeds the %d byte upload limit", maxBytes))
		}
		return nil, "", utils.NewBadRequestError("No file uploaded or invalid form")
	}
	defer file.Close()

	mediaType, ok := services.ReceiptMediaType(header.Filename)
	if !ok {
		return nil, "", utils.NewBadRequestError(utils.ErrUnsupportedImageType)
	}

	image, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}

	zap.L().Debug("receipt uploaded",
		zap.String("filename", header.Filename),
		zap.Int("bytes", len(image)),
		zap.String("media_type", mediaType),
	)
	return image, mediaType, nil
}
