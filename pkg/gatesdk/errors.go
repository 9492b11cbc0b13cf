package gatesdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Stable error codes returned by the service.
const (
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodePolicyRejected = "policy_rejected"
	ErrorCodeCodeRejected   = "code_rejected"
	ErrorCodeRateLimited    = "rate_limit_exceeded"
	ErrorCodeServerError    = "server_error"
	ErrorCodeNotFound       = "not_found"
	ErrorCodeUnauthorized   = "unauthorized"
)

// APIError is the typed error the client returns for any non-2xx response.
type APIError struct {
	StatusCode  int
	Code        string
	Description string

	// RetryAfter is set for 429 responses (seconds)
	RetryAfter int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// IsRateLimited reports whether the error is a rate-limit or cooldown
// rejection that carries a retry-after hint.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// parseErrorResponse converts a non-2xx response body into an *APIError.
// Returns nil for 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
			RetryAfter:  errResp.RetryAfter,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
