package httpclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dangelesl03/frontwedding/pkg/errors"
)

func responseWithBody(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantStatus  int
		wantMessage string
		wantErr     error
	}{
		{
			name:        "not found with message",
			status:      http.StatusNotFound,
			body:        `{"message": "gift not found"}`,
			wantStatus:  http.StatusNotFound,
			wantMessage: "gift not found",
			wantErr:     apperrors.ErrNotFound,
		},
		{
			name:        "payment rejected",
			status:      http.StatusUnprocessableEntity,
			body:        `{"message": "payment declined by provider"}`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "payment declined by provider",
			wantErr:     apperrors.ErrPaymentFailed,
		},
		{
			name:        "bad request",
			status:      http.StatusBadRequest,
			body:        `{"message": "invalid gift id"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid gift id",
			wantErr:     apperrors.ErrInvalidInput,
		},
		{
			name:        "server error maps to bad gateway",
			status:      http.StatusInternalServerError,
			body:        `{"message": "boom"}`,
			wantStatus:  http.StatusBadGateway,
			wantMessage: "boom",
			wantErr:     apperrors.ErrServiceUnavail,
		},
		{
			name:        "non-json body falls back to status text",
			status:      http.StatusNotFound,
			body:        `<html>not found</html>`,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Not Found",
			wantErr:     apperrors.ErrNotFound,
		},
		{
			name:        "conflict",
			status:      http.StatusConflict,
			body:        `{"message": "gift already fully funded"}`,
			wantStatus:  http.StatusConflict,
			wantMessage: "gift already fully funded",
			wantErr:     apperrors.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseResponseError(responseWithBody(tt.status, tt.body))
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantStatus, appErr.Status)
			assert.Equal(t, tt.wantMessage, appErr.Message)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(http.StatusBadRequest))
	assert.True(t, IsClientError(http.StatusNotFound))
	assert.False(t, IsClientError(http.StatusOK))
	assert.False(t, IsClientError(http.StatusInternalServerError))
}
