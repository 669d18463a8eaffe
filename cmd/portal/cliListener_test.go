package main

import (
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"
	"imgportal/engine/library"
)

func TestLogFailure(t *testing.T) {
	assert.Equal(t, false, logFailure(nil))
	assert.Equal(t, true, logFailure(library.NewError(library.KindInvalidState, "submit", errors.New("not ready"))))
	assert.Equal(t, true, logFailure(errors.New("plain")))
}
