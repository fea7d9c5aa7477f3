package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/profitmap/docflow/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		category string
		expected int
	}{
		{"internal", ErrCodeInternal, "", http.StatusInternalServerError},
		{"validation", ErrCodeValidation, "", http.StatusBadRequest},
		{"body too large", ErrCodeRequestTooLarge, "", http.StatusRequestEntityTooLarge},
		{"document not found", "DOCUMENT_NOT_FOUND", shared.CategoryNotFound, http.StatusNotFound},
		{"same document", "SAME_DOCUMENT", shared.CategoryConflict, http.StatusConflict},
		{"duplicate relationship", "DUPLICATE_RELATIONSHIP", shared.CategoryConflict, http.StatusConflict},
		{"invalid status", "INVALID_STATUS", shared.CategoryInvalidTransition, http.StatusUnprocessableEntity},
		{"not an offer overrides category", "NOT_AN_OFFER", shared.CategoryInvalidInput, http.StatusUnprocessableEntity},
		{"invalid input", "INVALID_QUANTITY", shared.CategoryInvalidInput, http.StatusBadRequest},
		{"contention", "RESOURCE_CONTENTION", shared.CategoryResourceContention, http.StatusServiceUnavailable},
		{"storage", "STORAGE_UNAVAILABLE", shared.CategoryStorageUnavailable, http.StatusServiceUnavailable},
		{"partial notification", "PARTIAL_FAILURE_NOTIFICATION", shared.CategoryPartialFailureNotification, http.StatusMultiStatus},
		{"partial linkage", "PARTIAL_FAILURE_LINKAGE", shared.CategoryPartialFailureLinkage, http.StatusMultiStatus},
		{"unknown", "SOMETHING_ELSE", "", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code, tt.category))
		})
	}
}

func TestIsPartialFailure(t *testing.T) {
	assert.True(t, IsPartialFailure(shared.CategoryPartialFailureLinkage))
	assert.True(t, IsPartialFailure(shared.CategoryPartialFailureNotification))
	assert.False(t, IsPartialFailure(shared.CategoryConflict))
}

func TestNewPartialResponse(t *testing.T) {
	resp := NewPartialResponse(map[string]string{"document_number": "INV-2025-0001"},
		"PARTIAL_FAILURE_LINKAGE", shared.CategoryPartialFailureLinkage, "not linked", "req-1")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.Equal(t, "INV-2025-0001", decoded["data"].(map[string]any)["document_number"])
	assert.Equal(t, "PARTIAL_FAILURE_LINKAGE", decoded["error"].(map[string]any)["code"])
	assert.Equal(t, "req-1", decoded["error"].(map[string]any)["request_id"])
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2}, 21, 2, 10, 3)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(21), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Nil(t, resp.Error)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-2", []ValidationDetail{
		{Field: "status", Message: "This field is required"},
	})

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 1)
}
