package appbridge

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/mcp-app-bridge-go/internal/client"
	"github.com/wagiedev/mcp-app-bridge-go/internal/config"
	"github.com/wagiedev/mcp-app-bridge-go/internal/hostctx"
	"github.com/wagiedev/mcp-app-bridge-go/internal/message"
	"github.com/wagiedev/mcp-app-bridge-go/internal/protocol"
	"github.com/wagiedev/mcp-app-bridge-go/internal/sizeobs"
)

// Re-export types from internal packages

// ===== Callbacks =====

// RenderFunc renders a successful tool result into the app.
type RenderFunc = config.RenderFunc

// ErrorFunc shows an error message in the app.
type ErrorFunc = config.ErrorFunc

// ToolInputFunc receives tool arguments, complete or partial.
type ToolInputFunc = config.ToolInputFunc

// CleanupFunc releases app resources during host teardown.
type CleanupFunc = config.CleanupFunc

// ===== Tool Results =====

// ToolOutput is the resolved payload of a successful tool result.
type ToolOutput = message.ToolOutput

// ToolInput carries the arguments of the tool call.
type ToolInput = message.ToolInput

// PayloadSource names where a tool result payload was found.
type PayloadSource = message.PayloadSource

const (
	// SourceNone marks an empty ToolOutput.
	SourceNone = message.SourceNone
	// SourceStructuredContent is the structuredContent field.
	SourceStructuredContent = message.SourceStructuredContent
	// SourceBody is the legacy body object.
	SourceBody = message.SourceBody
	// SourceTextContent is a text content item holding a JSON object.
	SourceTextContent = message.SourceTextContent
	// SourceParams is the bare notification params.
	SourceParams = message.SourceParams
)

// CallToolResult is the MCP tool result.
type CallToolResult = mcp.CallToolResult

// TextContent is an MCP text content item.
type TextContent = mcp.TextContent

// Implementation identifies an app or host.
type Implementation = mcp.Implementation

// ===== Host Context =====

// HostContext is the host state the app adapts to.
type HostContext = hostctx.HostContext

// Theme is the host color scheme.
type Theme = hostctx.Theme

const (
	// ThemeLight is the default theme.
	ThemeLight = hostctx.ThemeLight
	// ThemeDark is the dark theme.
	ThemeDark = hostctx.ThemeDark
)

// DisplayMode is how the host presents the app.
type DisplayMode = hostctx.DisplayMode

const (
	// DisplayModeInline embeds the app in the conversation flow.
	DisplayModeInline = hostctx.DisplayModeInline
	// DisplayModeFullscreen gives the app the whole host viewport.
	DisplayModeFullscreen = hostctx.DisplayModeFullscreen
	// DisplayModePIP floats the app in a picture-in-picture frame.
	DisplayModePIP = hostctx.DisplayModePIP
)

// Styles carries host design tokens.
type Styles = hostctx.Styles

// Dimensions describes the container the host reserves for the app.
type Dimensions = hostctx.Dimensions

// Applier reflects host context fields into the app document.
type Applier = hostctx.Applier

// ===== Document =====

// Document is the app surface: measurable, optionally observable, and styled
// by the host context.
type Document = config.Document

// Size is a measured content size in CSS pixels.
type Size = sizeobs.Size

// Disconnect stops an observation.
type Disconnect = sizeobs.Disconnect

// ResizeObserver is implemented by documents that can watch their own size.
type ResizeObserver = sizeobs.ResizeObserver

// WindowEvents is implemented by documents that deliver window resize events.
type WindowEvents = sizeobs.WindowEvents

// MutationObserver is implemented by documents that can watch tree mutations.
type MutationObserver = sizeobs.MutationObserver

// MutationOptions selects which document mutations are observed.
type MutationOptions = sizeobs.MutationOptions

// ===== Lifecycle =====

// State is the lifecycle state of a Client.
type State = client.State

const (
	// StateIdle is a client that has not been started.
	StateIdle = client.StateIdle
	// StateStarting is a client performing the initialize handshake.
	StateStarting = client.StateStarting
	// StateRunning is a client handling host traffic.
	StateRunning = client.StateRunning
	// StateCleaningUp is a client running its teardown sequence.
	StateCleaningUp = client.StateCleaningUp
	// StateTerminated is a client the host has torn down.
	StateTerminated = client.StateTerminated
	// StateClosed is a client disposed locally.
	StateClosed = client.StateClosed
)

// ProtocolVersion is the app protocol revision this client speaks.
const ProtocolVersion = message.ProtocolVersion

const (
	// DefaultRequestTimeout applies to host requests when no timeout is configured.
	DefaultRequestTimeout = protocol.DefaultRequestTimeout
	// DefaultSizeDebounce is the size report debounce window used when none is configured.
	DefaultSizeDebounce = sizeobs.DefaultDebounce
)
