package library

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestErrorKindsMatchThroughWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("refresh: %w", NewError(KindRemoteUnreachable, "fetch account", cause))

	assert.Equal(t, true, errors.Is(err, ErrRemoteUnreachable))
	assert.Equal(t, false, errors.Is(err, ErrTimeout))
	assert.Equal(t, true, errors.Is(err, cause))
	assert.Equal(t, KindRemoteUnreachable, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(cause))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "timeout", ErrTimeout.Error())
	assert.Equal(t, "submit: invalid input", NewError(KindInvalidInput, "submit", nil).Error())
	assert.Equal(t, "submit: invalid input: no link given", NewError(KindInvalidInput, "submit", errors.New("no link given")).Error())
	assert.Equal(t, "kind(99)", Kind(99).String())
}

func TestNormaliseLink(t *testing.T) {
	assert.Equal(t, "https://example.com/a.png", NormaliseLink("  https://example.com/a.png\n"))
	assert.Equal(t, "", NormaliseLink(" \t "))
}

func TestLifecycleStateConnected(t *testing.T) {
	assert.Equal(t, false, Disconnected.Connected())
	assert.Equal(t, false, Authenticating.Connected())
	assert.Equal(t, true, ConnectedUninitialized.Connected())
	assert.Equal(t, true, ConnectedReady.Connected())
	assert.Equal(t, "connected.ready", ConnectedReady.String())
}
