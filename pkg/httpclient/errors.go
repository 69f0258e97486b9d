package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/dangelesl03/frontwedding/pkg/errors"
)

// maxErrorBodySize caps how much of a downstream error body is read.
const maxErrorBodySize = 64 * 1024

// DownstreamErrorResponse matches the error body shape returned by the
// registry and payment backends: a flat object with a message field.
type DownstreamErrorResponse struct {
	Message string `json:"message"`
}

// ParseResponseError reads and interprets a non-2xx response from a
// downstream service, translating it into an AppError. The response body
// is consumed but not closed.
func ParseResponseError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return &apperrors.AppError{
			Code:    "UPSTREAM_ERROR",
			Message: "failed to read upstream error response",
			Status:  http.StatusBadGateway,
			Err:     fmt.Errorf("read error response (status %d): %w", resp.StatusCode, err),
		}
	}

	var downstream DownstreamErrorResponse
	if err := json.Unmarshal(body, &downstream); err != nil || downstream.Message == "" {
		downstream.Message = http.StatusText(resp.StatusCode)
	}

	return mapDownstreamError(resp.StatusCode, downstream.Message)
}

// mapDownstreamError converts a downstream status code and message into
// the matching AppError.
func mapDownstreamError(status int, message string) error {
	switch {
	case status == http.StatusNotFound:
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: message,
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	case status == http.StatusConflict:
		return &apperrors.AppError{
			Code:    "CONFLICT",
			Message: message,
			Status:  http.StatusConflict,
			Err:     apperrors.ErrConflict,
		}
	case status == http.StatusUnprocessableEntity:
		return apperrors.PaymentFailed(message)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(message)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.Unauthorized(message)
	case status >= 500:
		return &apperrors.AppError{
			Code:    "UPSTREAM_UNAVAILABLE",
			Message: message,
			Status:  http.StatusBadGateway,
			Err:     apperrors.ErrServiceUnavail,
		}
	default:
		return &apperrors.AppError{
			Code:    "UPSTREAM_ERROR",
			Message: message,
			Status:  http.StatusBadGateway,
			Err:     fmt.Errorf("upstream returned status %d: %s", status, message),
		}
	}
}

// IsClientError reports whether the status code is in the 4xx range.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
