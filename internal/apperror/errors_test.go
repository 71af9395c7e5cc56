package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Nil(t *testing.T) {
	assert.Nil(t, Classify(nil))
}

func TestClassify_TaxonomyPassesThrough(t *testing.T) {
	for _, err := range []*AppError{
		NewRemoteUnavailable(errors.New("dial tcp")),
		NewUnauthorized("session expired"),
		NewValidation("name is required"),
		NewNotFound("contact not found"),
	} {
		got := Classify(fmt.Errorf("wrapped: %w", err))
		require.NotNil(t, got)
		assert.Same(t, err, got)
	}
}

func TestClassify_FoldsStoreTypes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType string
		wantCode int
	}{
		{"bad request", NewBadRequest("bad json"), TypeValidation, http.StatusUnprocessableEntity},
		{"conflict", NewConflict("duplicate tag"), TypeValidation, http.StatusUnprocessableEntity},
		{"forbidden", NewForbidden("no access"), TypeUnauthorized, http.StatusUnauthorized},
		{"internal", NewInternal(errors.New("boom")), TypeRemoteUnavailable, http.StatusServiceUnavailable},
		{"plain error", errors.New("connection reset"), TypeRemoteUnavailable, http.StatusServiceUnavailable},
		{"canceled", context.Canceled, TypeRemoteUnavailable, http.StatusServiceUnavailable},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), TypeRemoteUnavailable, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestClassify_KeepsStoreMessage(t *testing.T) {
	got := Classify(NewConflict("a tag with this name already exists"))
	assert.Equal(t, "a tag with this name already exists", got.Message)
}

func TestFromStatus(t *testing.T) {
	got := FromStatus(http.StatusNotFound, "", "")
	assert.Equal(t, TypeNotFound, got.Type)
	assert.Equal(t, "Not Found", got.Message)

	got = FromStatus(http.StatusBadGateway, "", "upstream down")
	assert.Equal(t, TypeRemoteUnavailable, got.Type)
	assert.Equal(t, "upstream down", got.Message)

	got = FromStatus(http.StatusUnprocessableEntity, TypeValidation, "email is invalid")
	assert.Equal(t, TypeValidation, got.Type)
}

func TestRetryable(t *testing.T) {
	assert.True(t, NewRemoteUnavailable(nil).Retryable())
	assert.False(t, NewUnauthorized("x").Retryable())
	assert.False(t, NewValidation("x").Retryable())
	assert.False(t, NewNotFound("x").Retryable())
}

func TestSafeMessageAndCode(t *testing.T) {
	err := fmt.Errorf("op: %w", NewNotFound("campaign not found"))
	assert.Equal(t, "campaign not found", SafeMessage(err))
	assert.Equal(t, http.StatusNotFound, SafeCode(err))

	assert.Equal(t, "an unexpected error occurred", SafeMessage(errors.New("sql: table missing")))
	assert.Equal(t, http.StatusInternalServerError, SafeCode(errors.New("x")))
}

func TestIsType(t *testing.T) {
	assert.True(t, IsType(fmt.Errorf("x: %w", NewUnauthorized("no")), TypeUnauthorized))
	assert.False(t, IsType(errors.New("no"), TypeUnauthorized))
}

func TestFromStatus_OtherClientErrors(t *testing.T) {
	assert.Equal(t, TypeBadRequest, FromStatus(http.StatusMethodNotAllowed, "", "").Type)
	assert.Equal(t, TypeRemoteUnavailable, FromStatus(http.StatusTooManyRequests, "", "").Type)
}
