package dashboard

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/ginjaninja78/financial-dashboard/internal/sales"
	"github.com/ginjaninja78/financial-dashboard/internal/types"
)

// Error codes of the JSON API.
const (
	CodeLoadFailed       = "LOAD_FAILED"
	CodeConversionFailed = "CONVERSION_FAILED"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeNotFound         = "NOT_FOUND"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// NewAPIError creates a new APIError with the given parameters
func NewAPIError(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// InvalidParameter reports a query parameter that could not be used.
func InvalidParameter(name, reason string) *APIError {
	return NewAPIError(http.StatusBadRequest, CodeInvalidParameter, "Invalid parameter value", map[string]string{
		"parameter": name,
		"reason":    reason,
	})
}

// pipelineError maps a failed pipeline run to an API error.
func pipelineError(err error) *APIError {
	var loadErr *types.LoadError
	var convErr *sales.ConversionError
	switch {
	case errors.As(err, &loadErr):
		return NewAPIError(http.StatusInternalServerError, CodeLoadFailed, "Failed to load the data file", err.Error())
	case errors.As(err, &convErr):
		return NewAPIError(http.StatusUnprocessableEntity, CodeConversionFailed, "Failed to convert the Sales column", map[string]interface{}{
			"column": convErr.Column,
			"row":    convErr.Row + 1,
			"value":  convErr.Value,
			"error":  convErr.Err.Error(),
		})
	default:
		return NewAPIError(http.StatusInternalServerError, CodeInternal, "Internal server error", err.Error())
	}
}

// statusFor returns the HTTP status of the HTML page for a failed run.
func statusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return http.StatusInternalServerError
}

func renderError(w http.ResponseWriter, r *http.Request, apiErr *APIError) {
	if err := render.Render(w, r, apiErr); err != nil {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}
