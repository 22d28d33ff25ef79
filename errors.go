package appbridge

import "github.com/wagiedev/mcp-app-bridge-go/internal/errors"

// Re-export error types from internal package

// ProtocolError is a host reply carrying an error object.
type ProtocolError = errors.ProtocolError

// ToolExecutionError is a tool result flagged as an error.
type ToolExecutionError = errors.ToolExecutionError

// MalformedMessageError indicates host params that could not be decoded.
type MalformedMessageError = errors.MalformedMessageError

// InitializationError indicates the initialize handshake failed.
type InitializationError = errors.InitializationError

// MissingHandlerError indicates a required callback was not registered.
type MissingHandlerError = errors.MissingHandlerError

// BridgeError is the base interface for all bridge errors.
type BridgeError = errors.BridgeError

// Re-export sentinel errors from internal package.
var (
	// ErrClientNotStarted indicates the client has not been started.
	ErrClientNotStarted = errors.ErrClientNotStarted

	// ErrClientAlreadyStarted indicates Start was called twice.
	ErrClientAlreadyStarted = errors.ErrClientAlreadyStarted

	// ErrClientClosed indicates the client has been closed and cannot be reused.
	ErrClientClosed = errors.ErrClientClosed

	// ErrTransportNotConnected indicates the transport is not connected.
	ErrTransportNotConnected = errors.ErrTransportNotConnected

	// ErrTransportClosed indicates the transport was closed.
	ErrTransportClosed = errors.ErrTransportClosed

	// ErrRequestTimeout indicates a request timed out.
	ErrRequestTimeout = errors.ErrRequestTimeout

	// ErrControllerStopped indicates the protocol controller stopped.
	ErrControllerStopped = errors.ErrControllerStopped

	// ErrTornDown indicates the host tore the app down.
	ErrTornDown = errors.ErrTornDown

	// ErrUnsupported indicates a document lacks an observation primitive.
	ErrUnsupported = errors.ErrUnsupported
)
