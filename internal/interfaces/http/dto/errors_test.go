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
		{"UNKNOWN_RESOURCE", http.StatusNotFound},
		{"INSUFFICIENT_AVAILABILITY", http.StatusUnprocessableEntity},
		{"CAPACITY_EXCEEDED", http.StatusUnprocessableEntity},
		{"RESOURCE_CONTENTION", http.StatusConflict},
		{"OPTIMISTIC_LOCK_FAILED", http.StatusConflict},
		{"INVALID_TRANSITION", http.StatusUnprocessableEntity},
		{"INVALID_QUANTITY", http.StatusBadRequest},
		{"INVALID_WINDOW", http.StatusBadRequest},
		{"DISPATCH_FAILURE", http.StatusBadGateway},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, "CAPACITY_EXCEEDED", NormalizeErrorCode("CAPACITY_EXCEEDED"))
	assert.Equal(t, "INVALID_QUANTITY", NormalizeErrorCode("INVALID_QUANTITY"))
	assert.Equal(t, ErrCodeUnknown, NormalizeErrorCode("SOME_PRIVATE_CODE"))
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a"}, 45, 2, 20)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
