package dto

import "time"

// APIResponse is the envelope of every JSON API response
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message,omitempty" example:"Student created"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewAPIResponse wraps data in a successful response
func NewAPIResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// MessageResponse acknowledges a mutation, carrying the affected id when there is one
type MessageResponse struct {
	Message string `json:"message" example:"Attendance marked"`
	ID      int64  `json:"id,omitempty" example:"1"`
}
