// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"kls/internal/core/apperror"
)

// ListResponse wraps list results with pagination.
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// ErrorBody is the JSON shape of an error.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewErrorBody renders an AppError.
func NewErrorBody(err *apperror.AppError) *ErrorBody {
	return &ErrorBody{Code: err.Code, Message: err.Message, Details: err.Details}
}

// SuccessResponse is returned by operations without a body of their own.
type SuccessResponse struct {
	Success            bool       `json:"success"`
	Message            string     `json:"message,omitempty"`
	PersistenceWarning *ErrorBody `json:"persistenceWarning,omitempty"`
}

// NextNumberResponse previews the next order number.
type NextNumberResponse struct {
	OrderNumber string `json:"orderNumber"`
	Date        string `json:"date"`
}
