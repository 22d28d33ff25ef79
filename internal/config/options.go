package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/mcp-app-bridge-go/internal/hostctx"
	"github.com/wagiedev/mcp-app-bridge-go/internal/message"
	"github.com/wagiedev/mcp-app-bridge-go/internal/sizeobs"
)

// RenderFunc renders a successful tool result into the app.
type RenderFunc func(ctx context.Context, output *message.ToolOutput)

// ErrorFunc shows an error message in the app.
type ErrorFunc func(ctx context.Context, msg string)

// ToolInputFunc receives the tool arguments, complete or partial.
type ToolInputFunc func(ctx context.Context, input *message.ToolInput, partial bool)

// CleanupFunc releases app resources during teardown.
type CleanupFunc func(ctx context.Context) error

// Document is the rendered app surface: it can be measured and observed for
// layout changes, and it applies host context styling.
type Document interface {
	sizeobs.Surface
	hostctx.Applier
}

// Options configures the app bridge client.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Transport carries envelopes to and from the host.
	// If nil, the stdio transport is created automatically.
	Transport Transport `json:"-"`

	// Document is the app surface used for size reporting and styling.
	// If nil, size reporting is disabled and context changes are only recorded.
	Document Document `json:"-"`

	// Render is called with the payload of every successful tool result.
	// Required.
	Render RenderFunc `json:"-"`

	// ShowError is called with the message of failed or cancelled tool calls.
	// Required.
	ShowError ErrorFunc `json:"-"`

	// ToolInput is called with the tool arguments. Optional.
	ToolInput ToolInputFunc `json:"-"`

	// Cleanups run in registration order during teardown.
	Cleanups []CleanupFunc `json:"-"`

	// AppInfo identifies the app to the host.
	// If nil, a generic name and version are announced.
	AppInfo *mcp.Implementation

	// DisplayModes lists the display modes the app supports.
	// If empty, only inline is announced.
	DisplayModes []hostctx.DisplayMode

	// RequestTimeout bounds every request to the host.
	// If zero, defaults to 5 seconds.
	RequestTimeout time.Duration

	// InitializeTimeout bounds the initialize handshake.
	// If zero, RequestTimeout is used.
	InitializeTimeout time.Duration

	// SizeDebounce is the quiet window before a size change is reported.
	// If zero, defaults to 100 milliseconds. Negative disables debouncing.
	SizeDebounce time.Duration

	// OutputSchema validates resolved tool payloads before they are rendered.
	// If nil, payloads are not validated.
	OutputSchema *jsonschema.Schema
}
