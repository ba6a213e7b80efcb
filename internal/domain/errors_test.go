package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBusiness(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"validation", NewValidationError("bad key %q", "x"), true},
		{"not found", NewNotFoundError("issue PROJ-1"), true},
		{"permission", NewPermissionError("edit PROJ-1"), true},
		{"conflict wrapped", fmt.Errorf("linking: %w", ErrConflict), true},
		{"auth", fmt.Errorf("calling api: %w", ErrAuth), false},
		{"rate limited", ErrRateLimited, false},
		{"server", ErrServer, false},
		{"auth wins over not found", errors.Join(ErrNotFound, ErrAuth), false},
		{"context canceled", context.Canceled, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBusiness(tt.err))
		})
	}
}

func TestConstructorsKeepMessage(t *testing.T) {
	err := NewValidationError("issue key %q is invalid", "proj")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), `issue key "proj" is invalid`)
}
