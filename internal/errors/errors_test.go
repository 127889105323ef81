package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"codeberg.org/mutker/laserscanqa/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	f := errors.New()

	assert.Equal(t, "Operation timed out", f.New(errors.ErrTimeout).Error())
	assert.Equal(t, "custom", f.WithMessage(errors.ErrTimeout, "custom").Error())

	cause := stderrors.New("disk full")
	assert.Equal(t, "Operation failed: disk full", f.Wrap(errors.ErrOperationFailed, cause).Error())

	withData := f.WithData(errors.ErrInvalidArgument, "bad value")
	assert.Equal(t, "Invalid argument provided: bad value", withData.Error())
	assert.Equal(t, "bad value", withData.GetData())
}

func TestUnknownCodeFallsBackToCode(t *testing.T) {
	err := errors.New().New(errors.ErrorCode("something_odd"))
	assert.Equal(t, "something_odd", err.Error())
}

func TestHasCode(t *testing.T) {
	cause := stderrors.New("boom")
	inner := errors.New().Wrap(errors.ErrTimeout, cause)
	outer := errors.New().Wrap(errors.ErrAssessFile, inner)
	wrapped := fmt.Errorf("context: %w", outer)

	assert.True(t, errors.HasCode(wrapped, errors.ErrAssessFile))
	assert.True(t, errors.HasCode(wrapped, errors.ErrTimeout))
	assert.False(t, errors.HasCode(wrapped, errors.ErrReadConfig))
	assert.False(t, errors.HasCode(nil, errors.ErrTimeout))
	assert.True(t, errors.Is(wrapped, cause))

	assert.Equal(t, errors.ErrAssessFile, errors.CodeOf(wrapped))
	assert.Equal(t, errors.ErrInternal, errors.CodeOf(cause))
}

func TestWithMessageKeepsCode(t *testing.T) {
	err := errors.New().New(errors.ErrAlreadyRunning).WithMessage("locked")
	assert.Equal(t, errors.ErrAlreadyRunning, err.Code())
	assert.Equal(t, "locked", err.Error())
}
