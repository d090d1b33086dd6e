package models

// SignupRequest request model
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest request model
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse response model
type AuthResponse struct {
	User  UserSummary `json:"user"`
	Token string      `json:"token"`
}

// CreateSplitBillRequest request model
type CreateSplitBillRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// AddParticipantRequest request model. A UserID adds a registered
// participant; otherwise Name (and optionally Email) adds a guest.
type AddParticipantRequest struct {
	UserID *string `json:"userId"`
	Name   string  `json:"name"`
	Email  *string `json:"email"`
}

// CreateExpenseRequest request model. Exactly one of Items or
// Amount+ParticipantIDs must be supplied.
type CreateExpenseRequest struct {
	Title          string               `json:"title"`
	Date           string               `json:"date"`
	Description    *string              `json:"description"`
	TaxAmount      float64              `json:"taxAmount"`
	TaxIncluded    bool                 `json:"taxIncluded"`
	Items          []ExpenseItemRequest `json:"items"`
	Amount         *float64             `json:"amount"`
	ParticipantIDs []string             `json:"participantIds"`
}

// ExpenseItemRequest is one line of an itemized expense request
type ExpenseItemRequest struct {
	Name          string   `json:"name"`
	Quantity      *int     `json:"quantity"`
	Price         *float64 `json:"price"`
	TaxAmount     float64  `json:"taxAmount"`
	ParticipantID string   `json:"participantId"`
}

// ParticipantTotal is one row of the settlement display list
type ParticipantTotal struct {
	ParticipantID string  `json:"participantId"`
	Name          string  `json:"name"`
	Total         float64 `json:"total"`
}

// SettlementView is the settlement summary plus a display list in
// participant order
type SettlementView struct {
	GrandTotal           float64            `json:"grandTotal"`
	PerParticipantTotals map[string]float64 `json:"perParticipantTotals"`
	Participants         []ParticipantTotal `json:"participants"`
}

// SplitBillDetail response model
type SplitBillDetail struct {
	SplitBill  *SplitBill      `json:"splitBill"`
	Settlement *SettlementView `json:"settlement"`
}

// ScannedReceipt holds the fields recovered from a receipt image
type ScannedReceipt struct {
	Title     string   `json:"title"`
	Amount    float64  `json:"amount"`
	TaxAmount *float64 `json:"taxAmount,omitempty"`
	RawText   string   `json:"rawText,omitempty"`
}

// ScanExpenseRequest carries the form fields sent with a receipt upload
type ScanExpenseRequest struct {
	ParticipantIDs []string
	TaxIncluded    bool
}
