package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError wraps a request validation failure so handlers can map it to a 4xx response
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is a request validation failure
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// CreateUserRequest carries the input for user creation
type CreateUserRequest struct {
	PiUserID string
	Username string
}

// Validate checks the request independent of the storage layer
func (r CreateUserRequest) Validate() error {
	return required("pi_user_id", r.PiUserID)
}

// MintRequest carries the text fields of a mint call; the image travels separately
type MintRequest struct {
	Title       string
	Description string
	Category    string
	Creator     string
	Price       float64
}

// Validate checks all required mint fields
func (r MintRequest) Validate() error {
	if err := required("title", r.Title); err != nil {
		return err
	}
	if err := required("description", r.Description); err != nil {
		return err
	}
	if err := required("category", r.Category); err != nil {
		return err
	}
	if err := required("creator", r.Creator); err != nil {
		return err
	}
	if r.Price <= 0 {
		return &ValidationError{Field: "price", Message: "must be a positive number"}
	}
	return nil
}

// ApprovePaymentRequest carries the input for advisory payment approval
type ApprovePaymentRequest struct {
	PaymentID string
	TokenID   string
	BuyerID   string
}

// Validate checks all approval fields
func (r ApprovePaymentRequest) Validate() error {
	if err := required("payment_id", r.PaymentID); err != nil {
		return err
	}
	if err := required("token_id", r.TokenID); err != nil {
		return err
	}
	return required("buyer_id", r.BuyerID)
}

// CompletePaymentRequest carries the input for purchase completion
type CompletePaymentRequest struct {
	PaymentID string
	TxID      string
	TokenID   string
	BuyerID   string
}

// Validate checks all completion fields
func (r CompletePaymentRequest) Validate() error {
	if err := required("payment_id", r.PaymentID); err != nil {
		return err
	}
	if err := required("txid", r.TxID); err != nil {
		return err
	}
	if err := required("token_id", r.TokenID); err != nil {
		return err
	}
	return required("buyer_id", r.BuyerID)
}
