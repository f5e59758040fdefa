package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsKindCodeAndCause(t *testing.T) {
	cause := errors.New("month out of range")
	err := Wrap(InvalidInput, "INVALID_DATE", cause)

	assert.Equal(t, InvalidInput, KindOf(err))
	assert.Equal(t, "INVALID_DATE", CodeOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "INVALID_DATE: month out of range", err.Error())
}

func TestNewHasNoCause(t *testing.T) {
	err := New(Conflict, "LESSON_DAY_EXISTS")
	assert.Equal(t, "LESSON_DAY_EXISTS", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestKindAndCodeOfUntypedError(t *testing.T) {
	plain := errors.New("boom")
	assert.Equal(t, Kind(0), KindOf(plain))
	assert.Empty(t, CodeOf(plain))
	assert.Equal(t, Kind(0), KindOf(nil))
}
