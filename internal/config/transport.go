// Package config provides configuration types for the app bridge client.
package config

import (
	"context"
	"encoding/json"
)

// Transport defines the message channel between the app and its host.
// Implement this to provide custom transports for testing, mocking,
// or embedding hosts (e.g., a browser bridge or an in-process preview).
//
// The default implementation frames newline-delimited JSON over stdio.
// Custom transports can be injected via Options.Transport.
type Transport interface {
	// Start initializes the transport and prepares it for communication.
	// This is called before any messages are sent or received.
	Start(ctx context.Context) error

	// ReadMessages returns channels for receiving messages and errors.
	// The message channel yields raw JSON envelopes from the host.
	// The error channel yields any errors that occur during reading.
	// Both channels are closed when reading completes or an error occurs.
	ReadMessages(ctx context.Context) (<-chan json.RawMessage, <-chan error)

	// SendMessage sends one JSON envelope to the host.
	// Delivery is not confirmed. This method must be safe for concurrent use.
	SendMessage(ctx context.Context, data []byte) error

	// Close terminates the transport and releases resources.
	// It's safe to call Close multiple times.
	Close() error

	// IsReady returns true if the transport is ready for communication.
	IsReady() bool
}
