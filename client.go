package appbridge

import (
	"context"
	"encoding/json"
	"time"
)

// Client is the app side of the host conversation.
//
// Lifecycle: Clients are single-use. Start performs setup and the initialize
// handshake; the host ends the conversation with a teardown request, after
// which Done is closed. Close disposes the client locally.
//
// Example usage:
//
//	client := NewClient()
//	defer client.Close()
//
//	err := client.Start(ctx,
//	    WithRender(render),
//	    WithErrorHandler(showError),
//	    WithCleanup(func(ctx context.Context) error {
//	        return saveDraft(ctx)
//	    }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := client.RequestDisplayMode(ctx, DisplayModeFullscreen); err != nil {
//	    log.Printf("fullscreen refused: %v", err)
//	}
type Client interface {
	// Start sets up the client and performs the initialize handshake.
	// Returns *MissingHandlerError if the render or error callback is not registered.
	Start(ctx context.Context, opts ...Option) error

	// State returns the lifecycle state.
	State() State

	// Done returns a channel closed once the host tears the app down or hangs up,
	// or Close is called.
	Done() <-chan struct{}

	// HostContext returns a snapshot of the current host context.
	HostContext() HostContext

	// HostInfo returns the host implementation announced during initialize.
	HostInfo() *Implementation

	// HostCapabilities returns the host capabilities announced during initialize.
	HostCapabilities() map[string]any

	// InitializationError returns the initialize handshake failure, if any.
	// The client keeps working with the default host context when it is set.
	InitializationError() error

	// CallTool asks the host to call a server tool on the app's behalf.
	CallTool(ctx context.Context, name string, args map[string]any) (*CallToolResult, error)

	// OpenLink asks the host to open a URL.
	OpenLink(ctx context.Context, url string) error

	// SendMessage posts a user message into the host conversation.
	SendMessage(ctx context.Context, text string) error

	// RequestDisplayMode asks the host to switch display modes and returns the granted mode.
	RequestDisplayMode(ctx context.Context, mode DisplayMode) (DisplayMode, error)

	// NotifySizeChanged schedules a size report, as if the layout had changed.
	NotifySizeChanged() error

	// SendRequest sends an arbitrary request and waits for the raw result.
	// A non-positive timeout uses the configured request timeout.
	SendRequest(ctx context.Context, method string, params any, timeout time.Duration) (json.RawMessage, error)

	// SendNotification sends an arbitrary notification.
	SendNotification(ctx context.Context, method string, params any) error

	// Close disposes the client. Pending requests fail and the transport is closed.
	Close() error
}

// NewClient creates a new client.
func NewClient() Client {
	return newClientImpl()
}
