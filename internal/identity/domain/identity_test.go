package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/loans/internal/errors"
)

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleNone.IsValid())
	assert.True(t, RoleClient.IsValid())
	assert.True(t, RoleManager.IsValid())
	assert.False(t, Role("ADMIN").IsValid())
	assert.False(t, Role("client").IsValid())
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"", RoleNone, false},
		{"CLIENT", RoleClient, false},
		{"manager", RoleManager, false},
		{" Client ", RoleClient, false},
		{"ADMIN", RoleNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRole)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestErrors_Categories(t *testing.T) {
	assert.ErrorIs(t, ErrIdentityNotFound, apperrors.ErrNotFound)
	assert.ErrorIs(t, ErrEmailAlreadyInUse, apperrors.ErrConflict)
	assert.ErrorIs(t, ErrNationalIDAlreadyInUse, apperrors.ErrConflict)
	assert.ErrorIs(t, ErrIdentityInUse, apperrors.ErrConflict)
	assert.ErrorIs(t, ErrInvalidRole, apperrors.ErrInvalidInput)
}
