package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetType(t *testing.T) {
	cause := errors.New("connection refused")

	assert.Equal(t, ErrorTypeNotFound, GetType(NotFoundf("planet %d not found", 40009077)))
	assert.Equal(t, ErrorTypeExternal, GetType(WrapExternal("esi unreachable", cause)))
	assert.Equal(t, ErrorTypeForbidden, GetType(fmt.Errorf("handler: %w", Forbidden("admin access required"))))
	assert.Equal(t, ErrorTypeInternal, GetType(cause))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := WrapInternal("failed to scan cache", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to scan cache: timeout", err.Error())
	assert.Equal(t, "method POST not allowed", MethodNotAllowed("POST").Error())
}
