// Package dto provides shared data transfer objects for API requests and responses.
package dto

// ErrorResponse represents a common API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
