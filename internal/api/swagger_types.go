package api

import "time"

// JSONResponse represents the standard API response format
// @Description Standard API response wrapper
type JSONResponse struct {
	Success   bool        `json:"success" example:"true"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp" example:"2024-06-01T10:00:00Z"`
} // @name JSONResponse

// ErrorResponse represents an error response
// @Description Standard error response format
type ErrorResponse struct {
	Success   bool      `json:"success" example:"false"`
	Error     string    `json:"error" example:"Failed to fetch commits: upstream GET /repos/virida/virida/commits returned 404 Not Found"`
	Timestamp time.Time `json:"timestamp" example:"2024-06-01T10:00:00Z"`
} // @name ErrorResponse
