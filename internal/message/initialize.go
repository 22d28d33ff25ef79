package message

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/mcp-app-bridge-go/internal/hostctx"
)

// AppCapabilities describes what the app supports.
type AppCapabilities struct {
	AvailableDisplayModes []hostctx.DisplayMode `json:"availableDisplayModes,omitempty"`
}

// InitializeParams are the params of the ui/initialize request.
type InitializeParams struct {
	AppInfo         *mcp.Implementation `json:"appInfo"`
	AppCapabilities AppCapabilities     `json:"appCapabilities"`
	ProtocolVersion string              `json:"protocolVersion"`
}

// InitializeResult is the host's reply to ui/initialize.
type InitializeResult struct {
	ProtocolVersion  string
	HostInfo         *mcp.Implementation
	HostCapabilities map[string]any
	HostContext      hostctx.HostContext
}

// ParseInitializeResult decodes an initialize reply.
//
// Hosts either nest the context under hostContext or send the context fields
// at the top level of the result. Both shapes are accepted.
func ParseInitializeResult(data json.RawMessage) (*InitializeResult, error) {
	raw := objectParams(data)

	var wire struct {
		ProtocolVersion  string              `json:"protocolVersion"`
		HostInfo         *mcp.Implementation `json:"hostInfo"`
		HostCapabilities map[string]any      `json:"hostCapabilities"`
		HostContext      json.RawMessage     `json:"hostContext"`
	}

	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("initialize result: %w", err)
	}

	contextData := raw
	if !isEmptyValue(wire.HostContext) {
		contextData = wire.HostContext
	}

	var ctx hostctx.HostContext
	if err := json.Unmarshal(contextData, &ctx); err != nil {
		return nil, fmt.Errorf("host context: %w", err)
	}

	return &InitializeResult{
		ProtocolVersion:  wire.ProtocolVersion,
		HostInfo:         wire.HostInfo,
		HostCapabilities: wire.HostCapabilities,
		HostContext:      ctx,
	}, nil
}

// SizeChangedParams are the params of ui/notifications/size-changed.
type SizeChangedParams struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// OpenLinkParams are the params of ui/open-link.
type OpenLinkParams struct {
	URL string `json:"url"`
}

// MessageParams are the params of ui/message.
type MessageParams struct {
	Role    string        `json:"role"`
	Content []mcp.Content `json:"content"`
}

// NewUserMessage builds ui/message params carrying a single user text block.
func NewUserMessage(text string) *MessageParams {
	return &MessageParams{
		Role:    "user",
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// RequestDisplayModeParams are the params of ui/request-display-mode.
type RequestDisplayModeParams struct {
	Mode hostctx.DisplayMode `json:"mode"`
}

// RequestDisplayModeResult is the host's reply to ui/request-display-mode.
type RequestDisplayModeResult struct {
	Mode hostctx.DisplayMode `json:"mode"`
}

// CallToolParams are the params of tools/call.
type CallToolParams = mcp.CallToolParams
