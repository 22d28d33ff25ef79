package appbridge

import (
	"log/slog"
	"time"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/wagiedev/mcp-app-bridge-go/internal/config"
)

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to an Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithTransport injects the transport to the host.
// If not set, newline-delimited JSON over stdin and stdout is used.
func WithTransport(transport Transport) Option {
	return func(o *Options) {
		o.Transport = transport
	}
}

// WithDocument sets the app surface used for size reporting and styling.
func WithDocument(doc Document) Option {
	return func(o *Options) {
		o.Document = doc
	}
}

// WithAppInfo sets the name and version announced to the host.
func WithAppInfo(name, version string) Option {
	return func(o *Options) {
		o.AppInfo = &Implementation{Name: name, Version: version}
	}
}

// WithDisplayModes sets the display modes the app supports.
func WithDisplayModes(modes ...DisplayMode) Option {
	return func(o *Options) {
		o.DisplayModes = modes
	}
}

// ===== Callbacks =====

// WithRender sets the callback receiving successful tool results. Required.
func WithRender(fn RenderFunc) Option {
	return func(o *Options) {
		o.Render = fn
	}
}

// WithErrorHandler sets the callback showing failed or cancelled tool calls. Required.
func WithErrorHandler(fn ErrorFunc) Option {
	return func(o *Options) {
		o.ShowError = fn
	}
}

// WithToolInput sets the callback receiving tool arguments.
func WithToolInput(fn ToolInputFunc) Option {
	return func(o *Options) {
		o.ToolInput = fn
	}
}

// WithCleanup adds a callback run during host teardown.
// Cleanups run in registration order; errors are logged and do not stop later cleanups.
func WithCleanup(fn CleanupFunc) Option {
	return func(o *Options) {
		o.Cleanups = append(o.Cleanups, fn)
	}
}

// ===== Timing =====

// WithRequestTimeout bounds every request to the host. Defaults to 5 seconds.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.RequestTimeout = timeout
	}
}

// WithInitializeTimeout bounds the initialize handshake.
// Defaults to the request timeout.
func WithInitializeTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.InitializeTimeout = timeout
	}
}

// WithSizeDebounce sets the quiet window before a size change is reported.
// Defaults to 100 milliseconds; a negative window reports every change.
func WithSizeDebounce(window time.Duration) Option {
	return func(o *Options) {
		o.SizeDebounce = window
	}
}

// ===== Validation =====

// WithOutputSchema validates resolved tool payloads against schema.
// Payloads that fail validation are routed to the error callback.
func WithOutputSchema(schema *jsonschema.Schema) Option {
	return func(o *Options) {
		o.OutputSchema = schema
	}
}

// Options configures the client. It is an alias of the internal configuration.
type Options = config.Options
