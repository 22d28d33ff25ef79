package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/mcp-app-bridge-go/internal/config"
	"github.com/wagiedev/mcp-app-bridge-go/internal/errors"
	"github.com/wagiedev/mcp-app-bridge-go/internal/hostctx"
	"github.com/wagiedev/mcp-app-bridge-go/internal/message"
	"github.com/wagiedev/mcp-app-bridge-go/internal/protocol"
	"github.com/wagiedev/mcp-app-bridge-go/internal/sizeobs"
	"github.com/wagiedev/mcp-app-bridge-go/internal/stdio"
)

const (
	// defaultAppName is announced when no app info is configured.
	defaultAppName = "mcp-app"

	// defaultAppVersion is announced when no app info is configured.
	defaultAppVersion = "0.0.0"
)

// Client is the app side of the host conversation.
type Client struct {
	log          *slog.Logger
	instanceID   ulid.ULID
	transport    config.Transport
	controller   *protocol.Controller
	dispatcher   *protocol.Dispatcher
	options      *config.Options
	hostContext  *hostctx.Store
	observer     *sizeobs.Observer
	outputSchema *jsonschema.Resolved

	requestTimeout time.Duration

	// Handshake outcome
	initMu           sync.RWMutex
	initErr          error
	hostInfo         *mcp.Implementation
	hostCapabilities map[string]any
	protocolVersion  string

	// Errgroup for goroutine management
	eg     *errgroup.Group
	cancel context.CancelFunc

	// Lifecycle management
	mu        sync.Mutex
	state     atomic.Int32
	reportMu  sync.Mutex // orders size reports against the teardown transition
	done      chan struct{}
	doneOnce  sync.Once
	closeOnce sync.Once
}

// New creates a new client.
//
// The client does not talk to the host until Start is called.
func New() *Client {
	return &Client{
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		done: make(chan struct{}),
	}
}

// State returns the lifecycle state.
func (c *Client) State() State {
	return State(c.state.Load())
}

// Done returns a channel that is closed once the client is torn down, the host
// closes the stream, or Close is called.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// InstanceID returns the identifier of this client in logs.
func (c *Client) InstanceID() string {
	return c.instanceID.String()
}

// closeDone safely closes the done channel exactly once.
func (c *Client) closeDone() {
	c.doneOnce.Do(func() {
		close(c.done)
	})
}

// validateOptions checks that the required callbacks are registered.
func validateOptions(options *config.Options) error {
	if options.Render == nil {
		return &errors.MissingHandlerError{Name: "render"}
	}

	if options.ShowError == nil {
		return &errors.MissingHandlerError{Name: "error"}
	}

	return nil
}

// Start sets the client up and performs the initialize handshake.
//
// Start fails if a required callback is missing, the output schema does not
// resolve, or the transport cannot be started. A failed handshake does not
// fail Start: the client keeps its default host context and the error is
// available from InitializationError.
func (c *Client) Start(ctx context.Context, options *config.Options) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.State() {
	case StateIdle:
	case StateClosed:
		return errors.ErrClientClosed
	default:
		return errors.ErrClientAlreadyStarted
	}

	if options == nil {
		options = &config.Options{}
	}

	if err := validateOptions(options); err != nil {
		return err
	}

	log := options.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c.instanceID = ulid.Make()
	c.log = log.With("component", "client", "instance_id", c.instanceID.String())
	c.options = options
	c.requestTimeout = options.RequestTimeout

	if options.OutputSchema != nil {
		resolved, err := options.OutputSchema.Resolve(nil)
		if err != nil {
			return fmt.Errorf("resolve output schema: %w", err)
		}

		c.outputSchema = resolved
	}

	c.state.Store(int32(StateStarting))

	if err := c.setup(ctx); err != nil {
		c.state.Store(int32(StateIdle))

		return err
	}

	c.initialize(ctx)

	if c.observer != nil {
		if err := c.observer.Start(); err != nil {
			c.log.Warn("Size observer unavailable", "error", err)
		}
	}

	if c.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		c.log.Info("Client started successfully")
	}

	return nil
}

// setup starts the transport, the controller and the event loop.
func (c *Client) setup(ctx context.Context) error {
	log := c.options.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	log = log.With("instance_id", c.instanceID.String())

	transport := c.options.Transport
	if transport != nil {
		c.log.Debug("Using injected custom transport")
	} else {
		transport = stdio.NewStdio(log)
	}

	if err := transport.Start(ctx); err != nil {
		return fmt.Errorf("start transport: %w", err)
	}

	c.transport = transport

	var applier hostctx.Applier
	if doc := c.options.Document; doc != nil {
		applier = doc
		c.observer = sizeobs.New(log, doc, c.reportSize, c.options.SizeDebounce)
	}

	c.hostContext = hostctx.NewStore(log, applier)
	c.hostContext.Reset()

	c.dispatcher = protocol.NewDispatcher(log)
	c.registerHandlers()

	// The client outlives the caller's setup context; Close cancels it.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel

	c.controller = protocol.NewController(log, transport)
	if err := c.controller.Start(runCtx); err != nil {
		cancel()
		_ = transport.Close()

		return fmt.Errorf("start protocol controller: %w", err)
	}

	var egCtx context.Context

	c.eg, egCtx = errgroup.WithContext(runCtx)

	c.eg.Go(func() error {
		return c.eventLoop(egCtx)
	})

	return nil
}

// eventLoop runs host requests and notifications serially in arrival order.
func (c *Client) eventLoop(ctx context.Context) error {
	defer c.log.Debug("Event loop stopped")

	inbound := c.controller.Inbound()

	for {
		select {
		case env, ok := <-inbound:
			if !ok {
				if err := c.controller.FatalError(); err != nil {
					c.log.Error("Transport error", "error", err)
					c.closeDone()

					return err
				}

				return nil
			}

			c.dispatcher.Dispatch(ctx, c.controller, env)

			if c.State() == StateCleaningUp {
				c.finishTeardown()

				return nil
			}

		case <-c.done:
			return nil

		case <-ctx.Done():
			return nil
		}
	}
}

// initialize performs the initialize handshake.
//
// Failures are logged and stored; the default host context stays applied.
func (c *Client) initialize(ctx context.Context) {
	params := &message.InitializeParams{
		AppInfo: c.options.AppInfo,
		AppCapabilities: message.AppCapabilities{
			AvailableDisplayModes: c.options.DisplayModes,
		},
		ProtocolVersion: message.ProtocolVersion,
	}

	if params.AppInfo == nil {
		params.AppInfo = &mcp.Implementation{Name: defaultAppName, Version: defaultAppVersion}
	}

	if len(params.AppCapabilities.AvailableDisplayModes) == 0 {
		params.AppCapabilities.AvailableDisplayModes = []hostctx.DisplayMode{hostctx.DisplayModeInline}
	}

	timeout := c.options.InitializeTimeout
	if timeout <= 0 {
		timeout = c.requestTimeout
	}

	c.log.Info("Initializing", "app", params.AppInfo.Name, "protocol_version", params.ProtocolVersion)

	raw, err := c.controller.SendRequest(ctx, message.MethodInitialize, params, timeout)
	if err == nil {
		var result *message.InitializeResult

		result, err = message.ParseInitializeResult(raw)
		if err == nil {
			c.hostContext.Update(result.HostContext)

			c.initMu.Lock()
			c.hostInfo = result.HostInfo
			c.hostCapabilities = result.HostCapabilities
			c.protocolVersion = result.ProtocolVersion
			c.initMu.Unlock()
		}
	}

	if err != nil {
		c.log.Warn("Initialize handshake failed, continuing with defaults", "error", err)

		c.initMu.Lock()
		c.initErr = &errors.InitializationError{Err: err}
		c.initMu.Unlock()

		return
	}

	if err := c.controller.SendNotification(ctx, message.MethodInitialized, struct{}{}); err != nil {
		c.log.Warn("Failed to send initialized notification", "error", err)
	}

	c.log.Info("Initialized", "host", c.HostInfo())
}

// InitializationError returns the handshake failure, if any.
func (c *Client) InitializationError() error {
	c.initMu.RLock()
	defer c.initMu.RUnlock()

	return c.initErr
}

// HostInfo returns the host implementation announced during initialize.
func (c *Client) HostInfo() *mcp.Implementation {
	c.initMu.RLock()
	defer c.initMu.RUnlock()

	return c.hostInfo
}

// HostCapabilities returns the host capabilities announced during initialize.
func (c *Client) HostCapabilities() map[string]any {
	c.initMu.RLock()
	defer c.initMu.RUnlock()

	return c.hostCapabilities
}

// ProtocolVersion returns the protocol version the host replied with.
func (c *Client) ProtocolVersion() string {
	c.initMu.RLock()
	defer c.initMu.RUnlock()

	return c.protocolVersion
}

// HostContext returns a snapshot of the current host context.
func (c *Client) HostContext() hostctx.HostContext {
	if c.hostContext == nil {
		return hostctx.Default()
	}

	return c.hostContext.Snapshot()
}

// Close disposes the client locally.
//
// The size observer is stopped, the controller and transport are shut down
// and pending requests fail. Cleanup callbacks only run on host teardown.
// After Close, the client cannot be reused. This method is safe to call
// multiple times.
func (c *Client) Close() error {
	var closeErr error

	c.closeOnce.Do(func() {
		c.mu.Lock()
		previous := State(c.state.Swap(int32(StateClosed)))
		c.mu.Unlock()

		if previous == StateIdle {
			c.closeDone()

			return
		}

		c.log.Info("Closing client", "previous_state", previous.String())

		if c.observer != nil {
			c.observer.Stop()
		}

		c.closeDone()

		if c.controller != nil {
			c.controller.Stop()
		}

		if c.cancel != nil {
			c.cancel()
		}

		if c.transport != nil {
			closeErr = c.transport.Close()
		}

		if c.eg != nil {
			if err := c.eg.Wait(); err != nil && closeErr == nil {
				closeErr = err
			}
		}

		c.log.Info("Client closed")
	})

	return closeErr
}

// running returns an error unless the client can talk to the host.
func (c *Client) running() error {
	switch c.State() {
	case StateStarting, StateRunning:
		return nil
	case StateIdle:
		return errors.ErrClientNotStarted
	case StateClosed:
		return errors.ErrClientClosed
	default:
		return errors.ErrTornDown
	}
}
