package dto

// ErrorResponse represents a standardized error response for the API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ValidationErrorResponse lists every failed validation rule, in rule order
type ValidationErrorResponse struct {
	Errors []string `json:"errors"`
}

// MessageResponse is returned by operations that produce no resource
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports whether the service can reach its store
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Error   string `json:"error,omitempty"`
}
