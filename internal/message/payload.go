package message

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// PayloadSource names where a tool result payload was found.
type PayloadSource string

const (
	SourceNone              PayloadSource = ""
	SourceStructuredContent PayloadSource = "structuredContent"
	SourceBody              PayloadSource = "body"
	SourceTextContent       PayloadSource = "textContent"
	SourceParams            PayloadSource = "params"
)

// reservedResultKeys are the CallToolResult keys that never count as payload.
var reservedResultKeys = map[string]struct{}{
	"content":           {},
	"isError":           {},
	"structuredContent": {},
	"_meta":             {},
}

// ToolOutput is what the render callback receives for a successful tool result.
type ToolOutput struct {
	// Payload is the resolved domain data. Nil when Empty is true.
	Payload any
	// Source names the location Payload was taken from.
	Source PayloadSource
	// Empty is set when no payload could be resolved.
	Empty bool
	// Result is the decoded tool result.
	Result *mcp.CallToolResult
}

// Resolve picks the render payload out of a successful tool result.
//
// Candidates are tried in order: structuredContent, the legacy body object,
// the first text content item holding a JSON object, and finally the bare
// params when they carry keys beyond the reserved result keys.
func (n *ToolResult) Resolve() *ToolOutput {
	out := &ToolOutput{Result: n.Result}

	if n.Result != nil && !isEmptyValue(n.Result.StructuredContent) {
		out.Payload = n.Result.StructuredContent
		out.Source = SourceStructuredContent

		return out
	}

	if body, ok := n.params["body"].(map[string]any); ok {
		out.Payload = body
		out.Source = SourceBody

		return out
	}

	for _, text := range TextContents(n.Result) {
		if obj, ok := jsonObject(text); ok {
			out.Payload = obj
			out.Source = SourceTextContent

			return out
		}
	}

	bare := n.cloneParams()
	for key := range reservedResultKeys {
		delete(bare, key)
	}

	if len(bare) > 0 {
		out.Payload = bare
		out.Source = SourceParams

		return out
	}

	out.Empty = true

	return out
}

// jsonObject decodes text when it holds a JSON object.
func jsonObject(text string) (map[string]any, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return nil, false
	}

	return obj, true
}

// isEmptyValue reports whether a decoded JSON value carries nothing to render.
func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case json.RawMessage:
		trimmed := bytes.TrimSpace(val)
		return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
	default:
		return false
	}
}
