package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProtocolError(t *testing.T) {
	err := &ProtocolError{Code: -32601, Message: "method not found"}

	require.Equal(t, "host error -32601: method not found", err.Error())
	require.True(t, err.IsBridgeError())

	bare := &ProtocolError{Message: "nope"}
	require.Equal(t, "host error: nope", bare.Error())
}

func TestToolExecutionError(t *testing.T) {
	err := &ToolExecutionError{Message: "boom"}

	require.Equal(t, "tool execution failed: boom", err.Error())
	require.True(t, err.IsBridgeError())
}

func TestMalformedMessageError(t *testing.T) {
	root := errors.New("unexpected end of JSON input")

	err := &MalformedMessageError{Method: "ui/notifications/tool-result", Err: root}
	require.Equal(t, "malformed ui/notifications/tool-result message: unexpected end of JSON input", err.Error())
	require.ErrorIs(t, err, root)

	noMethod := &MalformedMessageError{Err: root}
	require.Equal(t, "malformed message: unexpected end of JSON input", noMethod.Error())
}

func TestInitializationError_WrapsTimeout(t *testing.T) {
	err := &InitializationError{Err: fmt.Errorf("%w after 5s", ErrRequestTimeout)}

	require.ErrorIs(t, err, ErrRequestTimeout)
	require.Contains(t, err.Error(), "initialize handshake failed")
	require.True(t, err.IsBridgeError())
}

func TestInitializationError_AsProtocolError(t *testing.T) {
	err := &InitializationError{Err: &ProtocolError{Code: 1, Message: "denied"}}

	protoErr, ok := errors.AsType[*ProtocolError](err)
	require.True(t, ok)
	require.Equal(t, "denied", protoErr.Message)
}

func TestMissingHandlerError(t *testing.T) {
	err := &MissingHandlerError{Name: "render"}

	require.Equal(t, "required handler not registered: render", err.Error())
	require.True(t, err.IsBridgeError())
}

func TestSentinelErrors_Distinct(t *testing.T) {
	sentinels := []error{
		ErrClientNotStarted,
		ErrClientAlreadyStarted,
		ErrClientClosed,
		ErrTransportNotConnected,
		ErrTransportClosed,
		ErrRequestTimeout,
		ErrControllerStopped,
		ErrTornDown,
		ErrUnsupported,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}

			require.NotErrorIs(t, a, b)
		}
	}
}
