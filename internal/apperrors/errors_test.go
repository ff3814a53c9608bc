package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validation", err: apperrors.NewValidationError("amount must be >= 0"), want: apperrors.KindValidation},
		{name: "not found", err: apperrors.NewNotFoundError("account x"), want: apperrors.KindNotFound},
		{name: "currency mismatch", err: apperrors.NewCurrencyMismatchError("MAD", "CFA"), want: apperrors.KindCurrencyMismatch},
		{name: "conflict", err: apperrors.NewConflictError("partial settlement"), want: apperrors.KindConflict},
		{name: "duplicate is a conflict", err: apperrors.ErrDuplicate, want: apperrors.KindConflict},
		{name: "retry exhausted is internal", err: apperrors.ErrRetryExhausted, want: apperrors.KindInternal},
		{name: "wrapped app error keeps kind", err: apperrors.NewAppError(500, "lookup failed", apperrors.ErrNotFound), want: apperrors.KindNotFound},
		{name: "plain error", err: errors.New("boom"), want: apperrors.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.Kind(tt.err))
		})
	}
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	err := apperrors.NewAppError(500, "failed to begin transaction", cause)

	assert.Equal(t, "failed to begin transaction: dial tcp: refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "no cause", apperrors.NewAppError(400, "no cause", nil).Error())
}
