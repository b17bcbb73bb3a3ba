package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, CodeOf(NotFound("run", "abc")))
	assert.Equal(t, ErrCodeConfiguration, CodeOf(Configuration("bad ratio")))
	assert.Equal(t, ErrCodeInvalidInput, CodeOf(InvalidInput("cutover_date", "required")))
	assert.Equal(t, ErrCodeInternal, CodeOf(fmt.Errorf("plain")))
}

func TestCodeOfWrappedChain(t *testing.T) {
	inner := New(ErrCodeTransaction, "storage unavailable")
	outer := fmt.Errorf("run failed: %w", inner)

	assert.Equal(t, ErrCodeTransaction, CodeOf(outer))
	assert.True(t, IsCode(outer, ErrCodeTransaction))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, ErrCodeInternal, "failed to create run")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to create run")
	assert.Contains(t, err.Error(), "connection refused")
}
