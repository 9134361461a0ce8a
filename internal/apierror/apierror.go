// Package apierror holds the JSON error envelopes returned to clients.
// Internal details (SQL, stack traces) never reach these types.
package apierror

import "github.com/shopspring/decimal"

// APIError is the envelope for every 4xx/5xx response.
type APIError struct {
	Detail string `json:"detail"`
	// Code is a stable machine-readable category, e.g. "saldo_insuficiente".
	Code string `json:"code,omitempty"`
	// Solicitado and Disponible accompany balance rejections.
	Solicitado *decimal.Decimal `json:"solicitado,omitempty"`
	Disponible *decimal.Decimal `json:"disponible,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

func WithCode(code, msg string) *APIError {
	return &APIError{Detail: msg, Code: code}
}

// ValidationError carries one message per offending field.
type ValidationError struct {
	Detail string            `json:"detail"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Code: "validacion", Fields: fields}
}
