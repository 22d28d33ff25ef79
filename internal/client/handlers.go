package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wagiedev/mcp-app-bridge-go/internal/errors"
	"github.com/wagiedev/mcp-app-bridge-go/internal/message"
	"github.com/wagiedev/mcp-app-bridge-go/internal/protocol"
	"github.com/wagiedev/mcp-app-bridge-go/internal/sizeobs"
)

// notificationMethods are the host notifications the client handles.
var notificationMethods = []string{
	message.MethodToolResult,
	message.MethodToolInput,
	message.MethodToolInputPartial,
	message.MethodHostContextChanged,
	message.MethodToolCancelled,
}

// registerHandlers installs every host request and notification handler.
// It runs before the controller starts so no early notification is missed.
func (c *Client) registerHandlers() {
	for _, method := range notificationMethods {
		c.dispatcher.HandleNotification(method, c.notificationHandler(method))
	}

	c.dispatcher.HandleRequest(message.MethodResourceTeardown, c.handleTeardown)
	c.dispatcher.HandleRequest(message.MethodPing, c.handlePing)
}

// notificationHandler parses params for method and routes the result.
func (c *Client) notificationHandler(method string) protocol.NotificationHandler {
	return func(ctx context.Context, params json.RawMessage) {
		parsed, err := message.Parse(c.log, method, params)
		if err != nil {
			c.log.Debug("Dropping malformed notification", "method", method, "error", err)

			return
		}

		switch n := parsed.(type) {
		case *message.ToolResult:
			c.onToolResult(ctx, n)
		case *message.ToolInput:
			c.onToolInput(ctx, n, false)
		case *message.ToolInputPartial:
			c.onToolInput(ctx, &message.ToolInput{Arguments: n.Arguments}, true)
		case *message.HostContextChanged:
			c.onHostContextChanged(n)
		case *message.ToolCancelled:
			c.onToolCancelled(ctx, n)
		default:
			c.log.Debug("Ignoring notification", "method", parsed.Method())
		}
	}
}

// onToolResult renders a tool result or shows its error.
func (c *Client) onToolResult(ctx context.Context, n *message.ToolResult) {
	if n.IsError() {
		toolErr := &errors.ToolExecutionError{Message: n.ErrorText()}
		c.log.Debug("Tool result flagged as error", "error", toolErr)
		c.options.ShowError(ctx, toolErr.Message)

		return
	}

	output := n.Resolve()

	if c.outputSchema != nil && !output.Empty {
		if err := c.outputSchema.Validate(output.Payload); err != nil {
			c.log.Warn("Tool output failed schema validation", "source", output.Source, "error", err)
			c.options.ShowError(ctx, fmt.Sprintf("invalid tool output: %v", err))

			return
		}
	}

	c.log.Debug("Rendering tool result", "source", output.Source, "empty", output.Empty)
	c.options.Render(ctx, output)
}

// onToolInput forwards tool arguments to the optional callback.
func (c *Client) onToolInput(ctx context.Context, n *message.ToolInput, partial bool) {
	if c.options.ToolInput == nil {
		return
	}

	c.options.ToolInput(ctx, n, partial)
}

// onHostContextChanged merges the change and reports the size when the
// display mode toggled fullscreen.
func (c *Client) onHostContextChanged(n *message.HostContextChanged) {
	transition := c.hostContext.Update(n.Context)

	c.log.Debug("Host context changed", "changes", transition.Changes, "display_mode", transition.Mode)

	if transition.TogglesFullscreen() && c.observer != nil {
		c.observer.Force()
	}
}

// onToolCancelled shows the cancellation reason.
func (c *Client) onToolCancelled(ctx context.Context, n *message.ToolCancelled) {
	reason := n.DisplayReason()

	c.log.Info("Tool call cancelled by host", "reason", reason)
	c.options.ShowError(ctx, "tool cancelled: "+reason)
}

// handlePing answers a liveness probe.
func (c *Client) handlePing(context.Context, *protocol.Envelope) (any, error) {
	return struct{}{}, nil
}

// handleTeardown runs the cleanup sequence for a host teardown request.
//
// The reply is written by the dispatcher once this returns; the event loop
// then terminates the controller. A repeated teardown is left unanswered.
func (c *Client) handleTeardown(ctx context.Context, req *protocol.Envelope) (any, error) {
	c.reportMu.Lock()
	accepted := c.state.CompareAndSwap(int32(StateRunning), int32(StateCleaningUp)) ||
		c.state.CompareAndSwap(int32(StateStarting), int32(StateCleaningUp))
	c.reportMu.Unlock()

	if !accepted {
		c.log.Debug("Ignoring repeated teardown request", "id", req.IDString(), "state", c.State().String())

		return nil, protocol.ErrSkipReply
	}

	c.log.Info("Host requested teardown", "id", req.IDString())

	if c.observer != nil {
		c.observer.Stop()
	}

	for i, cleanup := range c.options.Cleanups {
		if err := cleanup(ctx); err != nil {
			c.log.Warn("Cleanup failed", "index", i, "error", err)
		}
	}

	return struct{}{}, nil
}

// finishTeardown puts the client in its terminal state after the reply.
func (c *Client) finishTeardown() {
	c.controller.Terminate()

	if c.state.CompareAndSwap(int32(StateCleaningUp), int32(StateTerminated)) {
		c.log.Info("Client terminated by host")
	}

	c.closeDone()
}

// reportSize sends a size-changed notification while the client is live.
//
// The state check and the send happen under reportMu, so no report is written
// once teardown has moved the client to CleaningUp.
func (c *Client) reportSize(size sizeobs.Size) {
	c.reportMu.Lock()
	defer c.reportMu.Unlock()

	if state := c.State(); state != StateStarting && state != StateRunning {
		c.log.Debug("Dropping size report", "state", state.String())

		return
	}

	params := message.SizeChangedParams{Width: size.Width, Height: size.Height}

	if err := c.controller.SendNotification(context.Background(), message.MethodSizeChanged, params); err != nil {
		c.log.Debug("Failed to report size", "error", err)
	}
}
