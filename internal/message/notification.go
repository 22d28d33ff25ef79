package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/mcp-app-bridge-go/internal/errors"
	"github.com/wagiedev/mcp-app-bridge-go/internal/hostctx"
)

// Notification is a parsed host notification.
type Notification interface {
	Method() string
}

// Compile-time verification that all variants implement Notification.
var (
	_ Notification = (*ToolResult)(nil)
	_ Notification = (*ToolInput)(nil)
	_ Notification = (*ToolInputPartial)(nil)
	_ Notification = (*HostContextChanged)(nil)
	_ Notification = (*ToolCancelled)(nil)
	_ Notification = (*Unrecognized)(nil)
)

// defaultCancelReason is reported when the host cancels without a reason.
const defaultCancelReason = "unknown reason"

// defaultToolErrorText is reported when an error result carries no text.
const defaultToolErrorText = "tool execution failed"

// ToolResult delivers the output of the tool call the app was opened for.
type ToolResult struct {
	Result *mcp.CallToolResult
	params map[string]any
}

// Method implements Notification.
func (n *ToolResult) Method() string { return MethodToolResult }

// IsError reports whether the tool flagged its result as an error.
func (n *ToolResult) IsError() bool {
	return n.Result != nil && n.Result.IsError
}

// ErrorText joins the text content items of an error result.
func (n *ToolResult) ErrorText() string {
	texts := TextContents(n.Result)
	if len(texts) == 0 {
		return defaultToolErrorText
	}

	return strings.Join(texts, "\n")
}

// ToolInput delivers the arguments the tool was called with.
type ToolInput struct {
	Arguments map[string]any `json:"arguments,omitempty"`
}

// Method implements Notification.
func (n *ToolInput) Method() string { return MethodToolInput }

// ToolInputPartial delivers arguments that are still being streamed by the model.
type ToolInputPartial struct {
	Arguments map[string]any `json:"arguments,omitempty"`
}

// Method implements Notification.
func (n *ToolInputPartial) Method() string { return MethodToolInputPartial }

// HostContextChanged carries the context fields the host changed.
type HostContextChanged struct {
	Context hostctx.HostContext
}

// Method implements Notification.
func (n *HostContextChanged) Method() string { return MethodHostContextChanged }

// ToolCancelled reports that the host cancelled the tool call.
type ToolCancelled struct {
	Reason string `json:"reason,omitempty"`
}

// Method implements Notification.
func (n *ToolCancelled) Method() string { return MethodToolCancelled }

// DisplayReason returns the reason, defaulting to "unknown reason".
func (n *ToolCancelled) DisplayReason() string {
	if strings.TrimSpace(n.Reason) == "" {
		return defaultCancelReason
	}

	return n.Reason
}

// Unrecognized is a notification this client does not know.
type Unrecognized struct {
	Name   string
	Params json.RawMessage
}

// Method implements Notification.
func (n *Unrecognized) Method() string { return n.Name }

// Parse converts notification params into a typed Notification.
//
// Unknown methods yield *Unrecognized with a nil error. Params that cannot be
// decoded for a known method yield a *errors.MalformedMessageError.
func Parse(log *slog.Logger, method string, params json.RawMessage) (Notification, error) {
	log = log.With("component", "message_parser")

	log.Debug("Parsing notification", "method", method)

	var (
		msg Notification
		err error
	)

	switch method {
	case MethodToolResult:
		msg, err = parseToolResult(params)
	case MethodToolInput:
		msg, err = decodeParams[ToolInput](params)
	case MethodToolInputPartial:
		msg, err = decodeParams[ToolInputPartial](params)
	case MethodHostContextChanged:
		msg, err = parseHostContextChanged(params)
	case MethodToolCancelled:
		msg, err = decodeParams[ToolCancelled](params)
	default:
		log.Debug("Unrecognized notification", "method", method)

		return &Unrecognized{Name: method, Params: params}, nil
	}

	if err != nil {
		return nil, &errors.MalformedMessageError{Method: method, Err: err}
	}

	return msg, nil
}

// objectParams returns params, treating absent or null params as an empty object.
func objectParams(params json.RawMessage) []byte {
	trimmed := bytes.TrimSpace(params)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []byte("{}")
	}

	return trimmed
}

// parseToolResult decodes a tool-result notification.
func parseToolResult(params json.RawMessage) (*ToolResult, error) {
	data := objectParams(params)

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("params: %w", err)
	}

	result, err := decodeCallToolResult(data)
	if err != nil {
		return nil, err
	}

	return &ToolResult{Result: result, params: raw}, nil
}

// lenientToolResult mirrors CallToolResult without rejecting unknown content types.
type lenientToolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StructuredContent any  `json:"structuredContent"`
	IsError           bool `json:"isError"`
}

// decodeCallToolResult decodes an MCP tool result. Content items of types the
// MCP SDK does not know are skipped instead of failing the whole result.
func decodeCallToolResult(data []byte) (*mcp.CallToolResult, error) {
	var result mcp.CallToolResult
	if err := json.Unmarshal(data, &result); err == nil {
		return &result, nil
	}

	var lenient lenientToolResult
	if err := json.Unmarshal(data, &lenient); err != nil {
		return nil, fmt.Errorf("tool result: %w", err)
	}

	out := &mcp.CallToolResult{
		StructuredContent: lenient.StructuredContent,
		IsError:           lenient.IsError,
	}

	for _, item := range lenient.Content {
		if item.Type == "text" {
			out.Content = append(out.Content, &mcp.TextContent{Text: item.Text})
		}
	}

	return out, nil
}

// DecodeCallToolResult decodes the reply of a tools/call request.
func DecodeCallToolResult(data json.RawMessage) (*mcp.CallToolResult, error) {
	return decodeCallToolResult(objectParams(data))
}

// TextContents returns the text of every text content item in order.
func TextContents(result *mcp.CallToolResult) []string {
	if result == nil {
		return nil
	}

	texts := make([]string, 0, len(result.Content))

	for _, c := range result.Content {
		if text, ok := c.(*mcp.TextContent); ok && text.Text != "" {
			texts = append(texts, text.Text)
		}
	}

	return texts
}

// decodeParams decodes a params object into a fresh T.
func decodeParams[T any](params json.RawMessage) (*T, error) {
	var v T
	if err := json.Unmarshal(objectParams(params), &v); err != nil {
		return nil, err
	}

	return &v, nil
}

// parseHostContextChanged decodes a host-context-changed notification.
func parseHostContextChanged(params json.RawMessage) (*HostContextChanged, error) {
	var ctx hostctx.HostContext
	if err := json.Unmarshal(objectParams(params), &ctx); err != nil {
		return nil, fmt.Errorf("host context: %w", err)
	}

	return &HostContextChanged{Context: ctx}, nil
}

// cloneParams returns a shallow copy of the raw params.
func (n *ToolResult) cloneParams() map[string]any {
	return maps.Clone(n.params)
}
