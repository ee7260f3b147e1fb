package handler

import "github.com/bizgrow/backend/internal/interfaces/http/dto"

// The types below only document response shapes for swag; handlers write
// dto.Response directly.

// APIResponse is the success envelope with a typed data field
type APIResponse[T any] struct {
	Success bool      `json:"success" example:"true"`
	Data    T         `json:"data,omitempty"`
	Meta    *dto.Meta `json:"meta,omitempty"`
}

// ErrorResponse is the failure envelope. error.code is one of the ERR_* codes.
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}

// CountData carries a bare counter such as unread notifications or cart lines
type CountData struct {
	Count int64 `json:"count" example:"3"`
}
