package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadhlanhapp/splitbill-backend/config"
)

const sampleReceipt = `WARUNG MAKAN SEDERHANA
Jl. Sudirman 10
Nasi Goreng 25.000
Es Teh 5.000
PPN 10
TOTAL Rp 55.000,00
`

func TestParseReceiptText(t *testing.T) {
	receipt := ParseReceiptText(sampleReceipt)

	assert.Equal(t, "WARUNG MAKAN SEDERHANA", receipt.Title)
	assert.Equal(t, 55000.0, receipt.Amount)
	require.NotNil(t, receipt.TaxAmount)
	assert.Equal(t, 10.0, *receipt.TaxAmount)
}

func TestParseReceiptText_TitleHeuristics(t *testing.T) {
	receipt := ParseReceiptText("12345\nAB\n\nToko Maju Jaya\nTotal 12.500")
	assert.Equal(t, "Toko Maju Jaya", receipt.Title)
	assert.Equal(t, 125.0, receipt.Amount)
	assert.Nil(t, receipt.TaxAmount)

	// Only the first five non-blank lines are considered.
	receipt = ParseReceiptText("1\n2\n3\n4\n5\nFar Away Title")
	assert.Equal(t, "Receipt", receipt.Title)
}

func TestParseReceiptText_Empty(t *testing.T) {
	receipt := ParseReceiptText("")

	assert.Equal(t, "Receipt", receipt.Title)
	assert.Zero(t, receipt.Amount)
	assert.Nil(t, receipt.TaxAmount)
}

func TestParseReceiptText_TaxDecimalComma(t *testing.T) {
	receipt := ParseReceiptText("Cafe Kopi\nPajak: 2,5\nTotal 30.000")

	require.NotNil(t, receipt.TaxAmount)
	assert.Equal(t, 2.5, *receipt.TaxAmount)
}

func TestReceiptMediaType(t *testing.T) {
	for name, want := range map[string]string{
		"a.jpg":  "image/jpeg",
		"b.JPEG": "image/jpeg",
		"c.png":  "image/png",
		"d.webp": "image/webp",
	} {
		got, ok := ReceiptMediaType(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := ReceiptMediaType("receipt.pdf")
	assert.False(t, ok)
}

func TestVisionTextExtractor_ExtractText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, http.MethodPost, r.Method)

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Content []map[string]interface{} `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "vision-model", body.Model)
		if assert.Len(t, body.Messages, 1) && assert.Len(t, body.Messages[0].Content, 2) {
			source, _ := body.Messages[0].Content[1]["source"].(map[string]interface{})
			assert.Equal(t, "image/png", source["media_type"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"TOKO\nTotal 12.500"}]}`))
	}))
	defer server.Close()

	extractor := NewVisionTextExtractor(config.OCRConfig{
		APIURL:  server.URL,
		APIKey:  "test-key",
		Model:   "vision-model",
		Timeout: 5 * time.Second,
	})

	text, err := extractor.ExtractText(context.Background(), []byte{0x89, 0x50}, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "TOKO\nTotal 12.500", text)
}

func TestVisionTextExtractor_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewVisionTextExtractor(config.OCRConfig{APIURL: server.URL, APIKey: "k", Timeout: time.Second}).
		ExtractText(context.Background(), []byte{1}, "image/jpeg")
	assert.ErrorContains(t, err, "503")

	_, err = NewVisionTextExtractor(config.OCRConfig{APIURL: server.URL}).
		ExtractText(context.Background(), []byte{1}, "image/jpeg")
	assert.EqualError(t, err, "Receipt scanning is not configured")
}

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) ExtractText(context.Context, []byte, string) (string, error) {
	return s.text, s.err
}

func TestReceiptService_Scan(t *testing.T) {
	service := NewReceiptService(stubExtractor{text: sampleReceipt})

	receipt, err := service.Scan(context.Background(), []byte{1}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, 55000.0, receipt.Amount)

	failing := NewReceiptService(stubExtractor{err: errors.New("boom")})
	_, err = failing.Scan(context.Background(), []byte{1}, "image/jpeg")
	assert.EqualError(t, err, "boom")
}
