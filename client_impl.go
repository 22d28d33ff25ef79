package appbridge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wagiedev/mcp-app-bridge-go/internal/client"
	"github.com/wagiedev/mcp-app-bridge-go/internal/config"
)

// clientWrapper wraps the internal client to adapt it to the public interface.
type clientWrapper struct {
	impl *client.Client
}

// Compile-time check that *clientWrapper implements the Client interface.
var _ Client = (*clientWrapper)(nil)

// newClientImpl creates the internal client implementation.
func newClientImpl() Client {
	return &clientWrapper{impl: client.New()}
}

// Start sets up the client and performs the initialize handshake.
func (c *clientWrapper) Start(ctx context.Context, opts ...Option) error {
	return c.impl.Start(ctx, applyOptionsToConfig(opts))
}

// State returns the lifecycle state.
func (c *clientWrapper) State() State {
	return c.impl.State()
}

// Done returns a channel closed on teardown or Close.
func (c *clientWrapper) Done() <-chan struct{} {
	return c.impl.Done()
}

// HostContext returns a snapshot of the current host context.
func (c *clientWrapper) HostContext() HostContext {
	return c.impl.HostContext()
}

// HostInfo returns the host implementation announced during initialize.
func (c *clientWrapper) HostInfo() *Implementation {
	return c.impl.HostInfo()
}

// HostCapabilities returns the host capabilities announced during initialize.
func (c *clientWrapper) HostCapabilities() map[string]any {
	return c.impl.HostCapabilities()
}

// InitializationError returns the initialize handshake failure, if any.
func (c *clientWrapper) InitializationError() error {
	return c.impl.InitializationError()
}

// CallTool asks the host to call a server tool.
func (c *clientWrapper) CallTool(ctx context.Context, name string, args map[string]any) (*CallToolResult, error) {
	return c.impl.CallTool(ctx, name, args)
}

// OpenLink asks the host to open a URL.
func (c *clientWrapper) OpenLink(ctx context.Context, url string) error {
	return c.impl.OpenLink(ctx, url)
}

// SendMessage posts a user message into the host conversation.
func (c *clientWrapper) SendMessage(ctx context.Context, text string) error {
	return c.impl.SendMessage(ctx, text)
}

// RequestDisplayMode asks the host to switch display modes.
func (c *clientWrapper) RequestDisplayMode(ctx context.Context, mode DisplayMode) (DisplayMode, error) {
	return c.impl.RequestDisplayMode(ctx, mode)
}

// NotifySizeChanged schedules a size report.
func (c *clientWrapper) NotifySizeChanged() error {
	return c.impl.NotifySizeChanged()
}

// SendRequest sends an arbitrary request.
func (c *clientWrapper) SendRequest(
	ctx context.Context,
	method string,
	params any,
	timeout time.Duration,
) (json.RawMessage, error) {
	return c.impl.SendRequest(ctx, method, params, timeout)
}

// SendNotification sends an arbitrary notification.
func (c *clientWrapper) SendNotification(ctx context.Context, method string, params any) error {
	return c.impl.SendNotification(ctx, method, params)
}

// Close disposes the client.
func (c *clientWrapper) Close() error {
	return c.impl.Close()
}

// applyOptionsToConfig converts public options to internal config.Options.
func applyOptionsToConfig(opts []Option) *config.Options {
	// Options is a type alias to config.Options, so no conversion is needed.
	return applyOptions(opts)
}
