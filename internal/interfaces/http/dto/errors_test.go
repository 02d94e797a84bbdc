package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"INVALID_CONFIGURATION", http.StatusBadRequest},
		{"MISSING_REQUIRED_FIELD", http.StatusUnprocessableEntity},
		{"MISSING_CREDENTIAL", http.StatusServiceUnavailable},
		{"KEY_LOAD_FAILURE", http.StatusInternalServerError},
		{"SIGNING_FAILURE", http.StatusInternalServerError},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInvalidState, http.StatusConflict},
		{ErrCodeNotFound, http.StatusNotFound},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "invoice.items[0].item_name", Message: "This field is required"},
	})

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 1)
}
