package utils

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is not empty
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(fmt.Sprintf("%s is required", fieldName))
	}
	return nil
}

// ValidateNonNegative checks if a number is non-negative
func ValidateNonNegative(value float64, fieldName string) error {
	if value < 0 {
		return NewValidationError(fmt.Sprintf("%s cannot be negative", fieldName))
	}
	return nil
}

// ValidateNotEmpty checks if a slice is not empty
func ValidateNotEmpty[T any](slice []T, fieldName string) error {
	if len(slice) == 0 {
		return NewValidationError(fmt.Sprintf("%s cannot be empty", fieldName))
	}
	return nil
}

// ValidateQuantity checks that an item quantity is a positive integer
func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return NewValidationError("item quantity must be positive")
	}
	return nil
}

// ValidatePassword enforces the minimum password length
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	return nil
}

// ValidateParticipantIDs checks that no participant id is blank
func ValidateParticipantIDs(ids []string) error {
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			return NewValidationError(fmt.Sprintf("participant %d id cannot be empty", i+1))
		}
	}
	return nil
}
