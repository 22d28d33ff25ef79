package message

// ProtocolVersion is the app protocol revision announced during initialize.
const ProtocolVersion = "2026-01-26"

// Methods exchanged with the host.
const (
	// Client to host requests.
	MethodInitialize         = "ui/initialize"
	MethodToolsCall          = "tools/call"
	MethodOpenLink           = "ui/open-link"
	MethodMessage            = "ui/message"
	MethodRequestDisplayMode = "ui/request-display-mode"

	// Client to host notifications.
	MethodInitialized = "ui/notifications/initialized"
	MethodSizeChanged = "ui/notifications/size-changed"

	// Host to client notifications.
	MethodToolResult         = "ui/notifications/tool-result"
	MethodToolInput          = "ui/notifications/tool-input"
	MethodToolInputPartial   = "ui/notifications/tool-input-partial"
	MethodHostContextChanged = "ui/notifications/host-context-changed"
	MethodToolCancelled      = "ui/notifications/tool-cancelled"

	// Host to client requests.
	MethodResourceTeardown = "ui/resource-teardown"
	MethodPing             = "ping"
)
