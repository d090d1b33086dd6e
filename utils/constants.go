package utils

const (
	// Expense shapes
	ShapeItemized = "itemized"
	ShapeFlat     = "flat"

	// HTTP status messages
	ErrInvalidRequest       = "Invalid request"
	ErrUnauthorized         = "Unauthorized"
	ErrSplitBillNotFound    = "Split bill not found or access denied"
	ErrExpenseNotFound      = "Expense not found"
	ErrParticipantNotFound  = "Participant not found"
	ErrUserNotFound         = "User not found"
	ErrAlreadyParticipant   = "User is already a participant"
	ErrGuestNameRequired    = "Name is required for guest participants"
	ErrEmailRegistered      = "Email already registered"
	ErrInvalidCredentials   = "Invalid email or password"
	ErrMissingSignupFields  = "Missing required fields"
	ErrItemFieldsRequired   = "each item must have: name, quantity, price, and participantId"
	ErrInvalidParticipants  = "Invalid participant IDs"
	ErrUnsupportedImageType = "Only JPG, JPEG, PNG and WEBP files are supported"

	// User search
	MinSearchQueryLength = 2
	MaxSearchResults     = 10

	// Passwords
	MinPasswordLength = 8

	// Precision for displayed monetary values
	MoneyPrecision = 100.0
)
