package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fadhlanhapp/splitbill-backend/config"
	"github.com/fadhlanhapp/splitbill-backend/metrics"
	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

const (
	defaultReceiptTitle = "Receipt"
	maxReceiptTitle     = 50
	titleSearchLines    = 5
	minReceiptAmount    = 1000
)

var (
	receiptAmountPattern = regexp.MustCompile(`(?i)(?:Rp|IDR|USD|\$)?\s*(\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{2})?)`)
	receiptTaxPattern    = regexp.MustCompile(`(?i)(?:PPN|TAX|Pajak)[\s:]*(\d+(?:[.,]\d+)?)`)
	digitsOnlyPattern    = regexp.MustCompile(`^\d+$`)
	amountSeparators     = strings.NewReplacer(".", "", ",", "")

	receiptMediaTypes = map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".webp": "image/webp",
	}
)

const transcribePrompt = `Transcribe every line of text printed on this receipt, top to bottom, exactly as it appears.
Return only the transcribed text. No explanations or formatting.`

// TextExtractor turns a receipt image into plain text
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte, mediaType string) (string, error)
}

// VisionTextExtractor transcribes receipts through a messages-style vision API
type VisionTextExtractor struct {
	cfg    config.OCRConfig
	client *http.Client
}

// NewVisionTextExtractor creates an extractor for the configured endpoint
func NewVisionTextExtractor(cfg config.OCRConfig) *VisionTextExtractor {
	return &VisionTextExtractor{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type visionResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// ExtractText sends the image to the vision API and returns the transcription
func (e *VisionTextExtractor) ExtractText(ctx context.Context, image []byte, mediaType string) (string, error) {
	if e.cfg.APIKey == "" {
		return "", utils.NewInternalError("Receipt scanning is not configured")
	}

	requestBody := map[string]interface{}{
		"model":      e.cfg.Model,
		"max_tokens": 4000,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": transcribePrompt,
					},
					{
						"type": "image",
						"source": map[string]interface{}{
							"type":       "base64",
							"media_type": mediaType,
							"data":       base64.StdEncoding.EncodeToString(image),
						},
					},
				},
			},
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal vision request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.APIURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create vision request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", e.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send vision request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("vision API returned status %d: %s", resp.StatusCode, string(body))
	}

	var decoded visionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode vision response: %w", err)
	}

	var parts []string
	for _, content := range decoded.Content {
		if content.Type == "text" {
			parts = append(parts, content.Text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// ReceiptService reads receipt images into expense fields
type ReceiptService struct {
	extractor TextExtractor
}

// NewReceiptService creates a new receipt service
func NewReceiptService(extractor TextExtractor) *ReceiptService {
	return &ReceiptService{extractor: extractor}
}

// Scan extracts the text of a receipt image and parses title, amount and tax
func (s *ReceiptService) Scan(ctx context.Context, image []byte, mediaType string) (*models.ScannedReceipt, error) {
	text, err := s.extractor.ExtractText(ctx, image, mediaType)
	if err != nil {
		metrics.ReceiptScans.WithLabelValues("extract_failed").Inc()
		zap.L().Warn("receipt text extraction failed", zap.Error(err))
		return nil, err
	}

	receipt := ParseReceiptText(text)
	outcome := "parsed"
	if receipt.Amount == 0 {
		outcome = "no_amount"
	}
	metrics.ReceiptScans.WithLabelValues(outcome).Inc()
	return receipt, nil
}

// ReceiptMediaType maps an upload file name to its image media type.
// Only jpg, jpeg, png and webp are accepted.
func ReceiptMediaType(filename string) (string, bool) {
	mediaType, ok := receiptMediaTypes[strings.ToLower(filepath.Ext(filename))]
	return mediaType, ok
}

// ParseReceiptText applies best-effort heuristics to transcribed receipt text
func ParseReceiptText(text string) *models.ScannedReceipt {
	receipt := &models.ScannedReceipt{
		Title:   receiptTitle(text),
		Amount:  receiptAmount(text),
		RawText: text,
	}
	if tax, ok := receiptTax(text); ok {
		receipt.TaxAmount = &tax
	}
	return receipt
}

// receiptAmount keeps the largest amount above the noise floor. Matched
// digits are read with the last two as cents.
func receiptAmount(text string) float64 {
	var largest int64
	for _, match := range receiptAmountPattern.FindAllStringSubmatch(text, -1) {
		value, err := strconv.ParseInt(amountSeparators.Replace(match[1]), 10, 64)
		if err != nil || value <= minReceiptAmount {
			continue
		}
		if value > largest {
			largest = value
		}
	}
	return float64(largest) / 100
}

func receiptTitle(text string) string {
	checked := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if checked == titleSearchLines {
			break
		}
		checked++

		if n := len([]rune(line)); n > 3 && n < maxReceiptTitle && !digitsOnlyPattern.MatchString(line) {
			return utils.Truncate(line, maxReceiptTitle)
		}
	}
	return defaultReceiptTitle
}

func receiptTax(text string) (float64, bool) {
	match := receiptTaxPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	tax, err := strconv.ParseFloat(strings.Replace(match[1], ",", ".", 1), 64)
	if err != nil || tax == 0 {
		return 0, false
	}
	return tax, true
}
