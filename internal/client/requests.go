package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/mcp-app-bridge-go/internal/hostctx"
	"github.com/wagiedev/mcp-app-bridge-go/internal/message"
)

// SendRequest sends a request to the host and waits for the raw result.
//
// A non-positive timeout uses the configured request timeout.
func (c *Client) SendRequest(
	ctx context.Context,
	method string,
	params any,
	timeout time.Duration,
) (json.RawMessage, error) {
	if err := c.running(); err != nil {
		return nil, err
	}

	if timeout <= 0 {
		timeout = c.requestTimeout
	}

	return c.controller.SendRequest(ctx, method, params, timeout)
}

// SendNotification sends a notification to the host.
func (c *Client) SendNotification(ctx context.Context, method string, params any) error {
	if err := c.running(); err != nil {
		return err
	}

	return c.controller.SendNotification(ctx, method, params)
}

// CallTool asks the host to call a server tool on the app's behalf.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	c.log.Debug("Calling tool", "tool", name)

	raw, err := c.SendRequest(ctx, message.MethodToolsCall, &message.CallToolParams{Name: name, Arguments: args}, 0)
	if err != nil {
		return nil, fmt.Errorf("call tool %q: %w", name, err)
	}

	result, err := message.DecodeCallToolResult(raw)
	if err != nil {
		return nil, fmt.Errorf("call tool %q: %w", name, err)
	}

	return result, nil
}

// OpenLink asks the host to open a URL.
func (c *Client) OpenLink(ctx context.Context, url string) error {
	c.log.Debug("Opening link", "url", url)

	if _, err := c.SendRequest(ctx, message.MethodOpenLink, &message.OpenLinkParams{URL: url}, 0); err != nil {
		return fmt.Errorf("open link: %w", err)
	}

	return nil
}

// SendMessage posts a user message into the host conversation.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	c.log.Debug("Sending message", "text_len", len(text))

	if _, err := c.SendRequest(ctx, message.MethodMessage, message.NewUserMessage(text), 0); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// RequestDisplayMode asks the host to switch display modes.
//
// The mode granted by the host is applied like a host context change and
// returned. Hosts that reply without a mode are taken to grant the request.
func (c *Client) RequestDisplayMode(ctx context.Context, mode hostctx.DisplayMode) (hostctx.DisplayMode, error) {
	c.log.Info("Requesting display mode", "display_mode", mode)

	raw, err := c.SendRequest(ctx, message.MethodRequestDisplayMode, &message.RequestDisplayModeParams{Mode: mode}, 0)
	if err != nil {
		return "", fmt.Errorf("request display mode %q: %w", mode, err)
	}

	var result message.RequestDisplayModeResult
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			return "", fmt.Errorf("decode display mode reply: %w", err)
		}
	}

	granted := result.Mode
	if granted == "" {
		granted = mode
	}

	c.onHostContextChanged(&message.HostContextChanged{Context: hostctx.HostContext{DisplayMode: granted}})

	return granted, nil
}

// NotifySizeChanged schedules a size report, as if the layout had changed.
func (c *Client) NotifySizeChanged() error {
	if err := c.running(); err != nil {
		return err
	}

	if c.observer == nil {
		return fmt.Errorf("notify size changed: no document configured")
	}

	c.observer.Trigger()

	return nil
}
