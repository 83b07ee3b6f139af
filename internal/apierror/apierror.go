// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Rejection carries the business motivo of a ledger operation that was not
// applied, so the front end can map it to user-facing messaging.
type Rejection struct {
	Detail string `json:"detail"`
	Motivo string `json:"motivo"`
}

func NewRejection(detail, motivo string) *Rejection {
	return &Rejection{Detail: detail, Motivo: motivo}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Erro de validacao", Fields: fields}
}
