package message

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/mcp-app-bridge-go/internal/errors"
	"github.com/wagiedev/mcp-app-bridge-go/internal/hostctx"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParse_Variants(t *testing.T) {
	tests := []struct {
		name   string
		method string
		params string
		check  func(t *testing.T, n Notification)
	}{
		{
			name:   "tool result",
			method: MethodToolResult,
			params: `{"content":[{"type":"text","text":"hi"}],"structuredContent":{"a":1}}`,
			check: func(t *testing.T, n Notification) {
				res, ok := n.(*ToolResult)
				require.True(t, ok)
				assert.False(t, res.IsError())
				assert.Equal(t, []string{"hi"}, TextContents(res.Result))
			},
		},
		{
			name:   "tool input",
			method: MethodToolInput,
			params: `{"arguments":{"city":"Oslo"}}`,
			check: func(t *testing.T, n Notification) {
				in, ok := n.(*ToolInput)
				require.True(t, ok)
				assert.Equal(t, "Oslo", in.Arguments["city"])
			},
		},
		{
			name:   "tool input partial",
			method: MethodToolInputPartial,
			params: `{"arguments":{"city":"Os"}}`,
			check: func(t *testing.T, n Notification) {
				in, ok := n.(*ToolInputPartial)
				require.True(t, ok)
				assert.Equal(t, "Os", in.Arguments["city"])
				assert.Equal(t, MethodToolInputPartial, in.Method())
			},
		},
		{
			name:   "host context changed",
			method: MethodHostContextChanged,
			params: `{"theme":"dark","displayMode":"fullscreen"}`,
			check: func(t *testing.T, n Notification) {
				changed, ok := n.(*HostContextChanged)
				require.True(t, ok)
				assert.Equal(t, hostctx.ThemeDark, changed.Context.Theme)
				assert.Equal(t, hostctx.DisplayModeFullscreen, changed.Context.DisplayMode)
			},
		},
		{
			name:   "tool cancelled without params",
			method: MethodToolCancelled,
			params: ``,
			check: func(t *testing.T, n Notification) {
				cancelled, ok := n.(*ToolCancelled)
				require.True(t, ok)
				assert.Equal(t, "unknown reason", cancelled.DisplayReason())
			},
		},
		{
			name:   "unrecognized",
			method: "ui/notifications/something-new",
			params: `{"x":1}`,
			check: func(t *testing.T, n Notification) {
				unknown, ok := n.(*Unrecognized)
				require.True(t, ok)
				assert.Equal(t, "ui/notifications/something-new", unknown.Method())
				assert.JSONEq(t, `{"x":1}`, string(unknown.Params))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse(testLogger(), tt.method, json.RawMessage(tt.params))
			require.NoError(t, err)
			tt.check(t, n)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, method := range []string{
		MethodToolResult,
		MethodToolInput,
		MethodHostContextChanged,
		MethodToolCancelled,
	} {
		t.Run(method, func(t *testing.T) {
			_, err := Parse(testLogger(), method, json.RawMessage(`[1,2`))
			require.Error(t, err)

			malformed, ok := stderrors.AsType[*errors.MalformedMessageError](err)
			require.True(t, ok)
			assert.Equal(t, method, malformed.Method)
		})
	}
}

func TestParse_ToolResultUnknownContentType(t *testing.T) {
	params := `{"content":[{"type":"widget","data":"?"},{"type":"text","text":"kept"}],"isError":true}`

	n, err := Parse(testLogger(), MethodToolResult, json.RawMessage(params))
	require.NoError(t, err)

	res := n.(*ToolResult)
	assert.True(t, res.IsError())
	assert.Equal(t, "kept", res.ErrorText())
}

func TestToolResult_ErrorText(t *testing.T) {
	tests := []struct {
		name   string
		params string
		want   string
	}{
		{
			name:   "joined with newlines",
			params: `{"isError":true,"content":[{"type":"text","text":"first"},{"type":"text","text":"second"}]}`,
			want:   "first\nsecond",
		},
		{
			name:   "fallback without text",
			params: `{"isError":true,"content":[]}`,
			want:   "tool execution failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse(testLogger(), MethodToolResult, json.RawMessage(tt.params))
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.(*ToolResult).ErrorText())
		})
	}
}

func TestToolCancelled_DisplayReason(t *testing.T) {
	assert.Equal(t, "user closed", (&ToolCancelled{Reason: "user closed"}).DisplayReason())
	assert.Equal(t, "unknown reason", (&ToolCancelled{Reason: "  "}).DisplayReason())
}

func TestTextContents_Nil(t *testing.T) {
	assert.Nil(t, TextContents(nil))
	assert.Empty(t, TextContents(&mcp.CallToolResult{}))
}
