package errors

import (
	"errors"
	"fmt"
)

// BridgeError is the base interface for all bridge errors.
type BridgeError interface {
	error
	IsBridgeError() bool
}

// Compile-time verification that all error types implement BridgeError.
var (
	_ BridgeError = (*ProtocolError)(nil)
	_ BridgeError = (*ToolExecutionError)(nil)
	_ BridgeError = (*MalformedMessageError)(nil)
	_ BridgeError = (*InitializationError)(nil)
	_ BridgeError = (*MissingHandlerError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrClientNotStarted indicates the client has not been started.
	ErrClientNotStarted = errors.New("client not started")

	// ErrClientAlreadyStarted indicates Start was called twice.
	ErrClientAlreadyStarted = errors.New("client already started")

	// ErrClientClosed indicates the client has been closed and cannot be reused.
	ErrClientClosed = errors.New("client closed: clients are single-use, create a new one with NewClient()")

	// ErrTransportNotConnected indicates the transport is not connected.
	ErrTransportNotConnected = errors.New("transport not connected")

	// ErrTransportClosed indicates the transport or the host stream was closed.
	ErrTransportClosed = errors.New("transport closed")

	// ErrRequestTimeout indicates no reply arrived before the request deadline.
	ErrRequestTimeout = errors.New("request timeout")

	// ErrControllerStopped indicates the protocol controller has stopped.
	ErrControllerStopped = errors.New("protocol controller stopped")

	// ErrTornDown indicates the host tore the resource down.
	// No further protocol traffic is handled after teardown.
	ErrTornDown = errors.New("resource torn down by host")

	// ErrUnsupported indicates a document does not provide an observation primitive.
	// The size observer falls back to another strategy when it sees this error.
	ErrUnsupported = errors.New("unsupported by document")
)

// ProtocolError is a reply envelope carrying an error object.
type ProtocolError struct {
	Code    int
	Message string
}

func (e *ProtocolError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("host error %d: %s", e.Code, e.Message)
	}

	return "host error: " + e.Message
}

// IsBridgeError implements BridgeError.
func (e *ProtocolError) IsBridgeError() bool { return true }

// ToolExecutionError is a tool result flagged with isError.
// It is routed to the error display callback rather than treated as a protocol fault.
type ToolExecutionError struct {
	Message string
}

func (e *ToolExecutionError) Error() string {
	return "tool execution failed: " + e.Message
}

// IsBridgeError implements BridgeError.
func (e *ToolExecutionError) IsBridgeError() bool { return true }

// MalformedMessageError indicates an inbound message is missing fields
// required by its apparent method. These messages are dropped.
type MalformedMessageError struct {
	Method string
	Err    error
}

func (e *MalformedMessageError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("malformed message: %v", e.Err)
	}

	return fmt.Sprintf("malformed %s message: %v", e.Method, e.Err)
}

func (e *MalformedMessageError) Unwrap() error {
	return e.Err
}

// IsBridgeError implements BridgeError.
func (e *MalformedMessageError) IsBridgeError() bool { return true }

// InitializationError indicates the initialize handshake failed.
// The client keeps running without host-supplied context.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialize handshake failed: %v", e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// IsBridgeError implements BridgeError.
func (e *InitializationError) IsBridgeError() bool { return true }

// MissingHandlerError indicates a required callback was not registered before Start.
type MissingHandlerError struct {
	Name string
}

func (e *MissingHandlerError) Error() string {
	return fmt.Sprintf("required handler not registered: %s", e.Name)
}

// IsBridgeError implements BridgeError.
func (e *MissingHandlerError) IsBridgeError() bool { return true }
