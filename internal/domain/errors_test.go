package domain

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"validation", ValidationError("Name and price are required"), KindValidation},
		{"not found", NotFoundError("Product not found"), KindNotFound},
		{"invalid credential", InvalidCredentialError("Invalid Password"), KindInvalidCredential},
		{"unauthenticated", UnauthenticatedError("Missing authorization token"), KindUnauthenticated},
		{"internal", InternalError(errors.New("connection refused")), KindInternal},
		{"plain error", errors.New("boom"), KindInternal},
		{"wrapped", errors.Wrap(NotFoundError("Product not found"), "get product"), KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestInternalErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := InternalError(cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "Server error", MessageOf(err))
	assert.Equal(t, "Server error: connection refused", err.Error())
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "Admin not found", MessageOf(NotFoundError("Admin not found")))
	assert.Equal(t, "Server error", MessageOf(errors.New("raw driver error")))
}
