package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/mcp-app-bridge-go/internal/config"
	"github.com/wagiedev/mcp-app-bridge-go/internal/hostctx"
	"github.com/wagiedev/mcp-app-bridge-go/internal/message"
	"github.com/wagiedev/mcp-app-bridge-go/internal/protocol"
	"github.com/wagiedev/mcp-app-bridge-go/internal/sizeobs"
)

const defaultInitializeResult = `{
	"protocolVersion": "2026-01-26",
	"hostInfo": {"name": "test-host", "version": "1.0.0"},
	"hostCapabilities": {"openLinks": {}},
	"hostContext": {"theme": "dark", "displayMode": "inline"}
}`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// replyFunc produces the raw reply envelope body for a request, minus the
// envelope fields. Returning ok=false leaves the request unanswered.
type replyFunc func(method string, params json.RawMessage) (reply string, ok bool)

// mockHost implements config.Transport and plays the host side.
type mockHost struct {
	mu       sync.Mutex
	started  bool
	closed   bool
	sentData [][]byte
	messages chan json.RawMessage
	errs     chan error
	reply    replyFunc
}

// Compile-time verification that mockHost implements config.Transport.
var _ config.Transport = (*mockHost)(nil)

// defaultReplies answers initialize with a full result and every other request with {}.
func defaultReplies(method string, _ json.RawMessage) (string, bool) {
	if method == message.MethodInitialize {
		return `"result":` + defaultInitializeResult, true
	}

	return `"result":{}`, true
}

func newMockHost(reply replyFunc) *mockHost {
	if reply == nil {
		reply = defaultReplies
	}

	return &mockHost{
		messages: make(chan json.RawMessage, 100),
		errs:     make(chan error, 1),
		reply:    reply,
	}
}

func (m *mockHost) Start(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.started = true

	return nil
}

func (m *mockHost) ReadMessages(context.Context) (<-chan json.RawMessage, <-chan error) {
	return m.messages, m.errs
}

func (m *mockHost) SendMessage(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("mock host closed")
	}

	m.sentData = append(m.sentData, append([]byte(nil), data...))

	env, err := protocol.Decode(data)
	if err != nil || env.Kind() != protocol.KindRequest {
		return nil
	}

	body, ok := m.reply(env.Method, env.Params)
	if !ok {
		return nil
	}

	// Replies are delivered asynchronously like a real host.
	msg := fmt.Sprintf(`{"jsonrpc":"2.0","id":%s,%s}`, env.ID, body)

	go m.inject(msg)

	return nil
}

func (m *mockHost) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.messages)
		close(m.errs)
	}

	return nil
}

func (m *mockHost) IsReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.started && !m.closed
}

// inject delivers a raw inbound message to the client.
func (m *mockHost) inject(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	m.messages <- json.RawMessage(msg)
}

// sent returns every envelope the client wrote.
func (m *mockHost) sent(t *testing.T) []*protocol.Envelope {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*protocol.Envelope, 0, len(m.sentData))

	for _, data := range m.sentData {
		env, err := protocol.Decode(data)
		require.NoError(t, err)

		out = append(out, env)
	}

	return out
}

// sentWithMethod returns the envelopes the client wrote for method.
func (m *mockHost) sentWithMethod(t *testing.T, method string) []*protocol.Envelope {
	t.Helper()

	var out []*protocol.Envelope

	for _, env := range m.sent(t) {
		if env.Method == method {
			out = append(out, env)
		}
	}

	return out
}

// waitForMethod blocks until the client wrote at least n envelopes for method.
func (m *mockHost) waitForMethod(t *testing.T, method string, n int) []*protocol.Envelope {
	t.Helper()

	require.Eventually(t, func() bool {
		return len(m.sentWithMethod(t, method)) >= n
	}, 2*time.Second, time.Millisecond)

	return m.sentWithMethod(t, method)
}

// repliesTo returns the replies the client wrote for the raw request id.
func (m *mockHost) repliesTo(t *testing.T, id string) []*protocol.Envelope {
	t.Helper()

	var out []*protocol.Envelope

	for _, env := range m.sent(t) {
		if env.Kind() == protocol.KindReply && string(env.ID) == id {
			out = append(out, env)
		}
	}

	return out
}

// stateCheckingHost counts size reports written while the client was not live.
type stateCheckingHost struct {
	*mockHost

	client *Client
	late   atomic.Int32
}

func (h *stateCheckingHost) SendMessage(ctx context.Context, data []byte) error {
	if env, err := protocol.Decode(data); err == nil && env.Method == message.MethodSizeChanged {
		if state := h.client.State(); state != StateStarting && state != StateRunning {
			h.late.Add(1)
		}
	}

	return h.mockHost.SendMessage(ctx, data)
}

// resizeLoop fires the document's resize callback with changing sizes until stop closes.
func (d *fakeDocument) resizeLoop(stop <-chan struct{}) {
	for i := 0; ; i++ {
		select {
		case <-stop:
			return
		default:
		}

		d.setSize(100+i%50, 200)

		d.mu.Lock()
		fn := d.resizeFn
		d.mu.Unlock()

		if fn != nil {
			fn()
		}
	}
}

// fakeDocument is a measurable surface recording applied host context.
type fakeDocument struct {
	mu       sync.Mutex
	size     sizeobs.Size
	themes   []hostctx.Theme
	modes    []hostctx.DisplayMode
	vars     map[string]string
	fonts    string
	resizeFn func()
}

// Compile-time verification that fakeDocument implements config.Document.
var _ config.Document = (*fakeDocument)(nil)

func (d *fakeDocument) ScrollSize() sizeobs.Size {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.size
}

func (d *fakeDocument) setSize(w, h int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.size = sizeobs.Size{Width: w, Height: h}
}

func (d *fakeDocument) ObserveResize(fn func()) (sizeobs.Disconnect, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.resizeFn = fn

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		d.resizeFn = nil
	}, nil
}

func (d *fakeDocument) observing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.resizeFn != nil
}

func (d *fakeDocument) ApplyTheme(theme hostctx.Theme) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.themes = append(d.themes, theme)
}

func (d *fakeDocument) ApplyFonts(css string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.fonts = css
}

func (d *fakeDocument) ApplyStyleVariables(vars map[string]string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.vars = vars
}

func (d *fakeDocument) ApplyDisplayMode(mode hostctx.DisplayMode) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.modes = append(d.modes, mode)
}

func (d *fakeDocument) appliedThemes() []hostctx.Theme {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]hostctx.Theme(nil), d.themes...)
}

// appRecorder collects what the client handed to the app callbacks.
type appRecorder struct {
	mu      sync.Mutex
	outputs []*message.ToolOutput
	errors  []string
	inputs  []*message.ToolInput
	partial []bool
}

func (r *appRecorder) render(_ context.Context, out *message.ToolOutput) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.outputs = append(r.outputs, out)
}

func (r *appRecorder) showError(_ context.Context, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors = append(r.errors, msg)
}

func (r *appRecorder) toolInput(_ context.Context, in *message.ToolInput, partial bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.inputs = append(r.inputs, in)
	r.partial = append(r.partial, partial)
}

func (r *appRecorder) renders() []*message.ToolOutput {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*message.ToolOutput(nil), r.outputs...)
}

func (r *appRecorder) errorMessages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.errors...)
}

// startClient starts a client against host with the recorder's callbacks.
func startClient(t *testing.T, host *mockHost, rec *appRecorder, mutate ...func(*config.Options)) *Client {
	t.Helper()

	opts := &config.Options{
		Logger:         testLogger(),
		Transport:      host,
		Render:         rec.render,
		ShowError:      rec.showError,
		ToolInput:      rec.toolInput,
		RequestTimeout: time.Second,
	}

	for _, fn := range mutate {
		fn(opts)
	}

	c := New()
	require.NoError(t, c.Start(context.Background(), opts))

	t.Cleanup(func() { _ = c.Close() })

	return c
}
