package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	cause := stderrors.New("connection refused")
	wrapped := fmt.Errorf("create message: %w", Unavailable("store unavailable", cause))

	assert.Equal(t, CodeUnavailable, CodeOf(wrapped))
	assert.True(t, Is(wrapped, CodeUnavailable))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, CodeUnknown, CodeOf(cause))
	assert.Equal(t, Code(""), CodeOf(nil))
}

func TestAppErrorMessage(t *testing.T) {
	assert.Equal(t, "user_id is required", InvalidArg("user_id is required").Error())
	assert.Equal(t, "lookup failed: boom", Wrap(CodeInternal, "lookup failed", stderrors.New("boom")).Error())
}
