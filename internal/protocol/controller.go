package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wagiedev/mcp-app-bridge-go/internal/errors"
)

const (
	// DefaultRequestTimeout is the deadline applied when SendRequest gets a non-positive timeout.
	DefaultRequestTimeout = 5 * time.Second

	// inboundBufferSize bounds how far the read loop may run ahead of the consumer.
	inboundBufferSize = 64
)

// Transport defines the minimal interface needed for protocol operations.
//
// This interface is satisfied by the stdio transport but allows for testing
// with mock transports.
type Transport interface {
	ReadMessages(ctx context.Context) (<-chan json.RawMessage, <-chan error)
	SendMessage(ctx context.Context, data []byte) error
}

// Replier sends replies to host-initiated requests.
type Replier interface {
	Reply(ctx context.Context, id json.RawMessage, result any) error
	ReplyError(ctx context.Context, id json.RawMessage, code int, message string) error
}

// Compile-time verification that Controller implements Replier.
var _ Replier = (*Controller)(nil)

// Controller manages envelope traffic with the host.
//
// The Controller handles:
//   - Sending requests with strictly increasing integer ids
//   - Receiving replies and resolving the matching pending request exactly once
//   - Request timeout enforcement
//   - Forwarding requests and notifications to consumers via the Inbound channel
//
// The Controller must be started with Start() before use and manages its own
// goroutine for reading and routing messages.
type Controller struct {
	log       *slog.Logger
	transport Transport

	// Request tracking. Ids start at 1 and are never reused.
	nextID    atomic.Int64
	pendingMu sync.Mutex
	pending   map[int64]*pendingRequest

	// Requests and notifications forwarded to the consumer
	inbound chan *Envelope

	// Set once the host has torn the resource down
	terminated atomic.Bool

	// Fatal error handling - stores error and broadcasts via done channel
	errMu    sync.RWMutex
	fatalErr error

	// Lifecycle management
	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// pendingRequest tracks an outgoing request awaiting its reply.
type pendingRequest struct {
	method   string
	response chan *Envelope
}

// NewController creates a new protocol controller.
//
// The logger will receive debug, info, warn, and error messages during
// protocol operations. The transport must be started before calling Start().
func NewController(log *slog.Logger, transport Transport) *Controller {
	return &Controller{
		log:       log.With("component", "protocol"),
		transport: transport,
		pending:   make(map[int64]*pendingRequest, 8),
		inbound:   make(chan *Envelope, inboundBufferSize),
		done:      make(chan struct{}),
	}
}

// closeDone safely closes the done channel exactly once.
func (c *Controller) closeDone() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// SetFatalError stores a fatal error and broadcasts to all waiters by closing done.
func (c *Controller) SetFatalError(err error) {
	c.errMu.Lock()

	if c.fatalErr == nil {
		c.fatalErr = err
	}

	c.errMu.Unlock()

	c.closeDone()
}

// FatalError returns the fatal error if one occurred.
func (c *Controller) FatalError() error {
	c.errMu.RLock()
	defer c.errMu.RUnlock()

	return c.fatalErr
}

// Done returns a channel that is closed when the controller stops.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Start begins reading messages from the transport.
//
// This method spawns a goroutine that reads from the transport, resolves
// replies, and forwards requests and notifications to Inbound(). The goroutine
// stops when the context is cancelled, the transport is closed, or the
// controller is stopped or terminated.
func (c *Controller) Start(ctx context.Context) error {
	c.log.Debug("Starting protocol controller")

	messages, errs := c.transport.ReadMessages(ctx)

	c.wg.Go(func() {
		c.readLoop(ctx, messages, errs)
	})

	c.log.Info("Protocol controller started")

	return nil
}

// Stop gracefully shuts down the controller.
//
// Pending requests fail with ErrControllerStopped. It's safe to call Stop
// multiple times.
func (c *Controller) Stop() {
	c.log.Debug("Stopping protocol controller")

	c.closeDone()
	c.wg.Wait()
	c.log.Info("Protocol controller stopped")
}

// Terminate puts the controller in its terminal state after a host teardown.
//
// Pending requests fail with ErrTornDown, further inbound traffic is discarded
// and sends are refused. Replies already written are unaffected.
func (c *Controller) Terminate() {
	if !c.terminated.CompareAndSwap(false, true) {
		return
	}

	c.log.Info("Protocol controller terminated by host teardown")
	c.closeDone()
}

// Terminated reports whether Terminate has been called.
func (c *Controller) Terminated() bool {
	return c.terminated.Load()
}

// Inbound returns a channel of host requests and notifications.
//
// The controller acts as a multiplexer: it reads all messages from the
// transport, resolves replies internally, and forwards everything else through
// this channel in arrival order. The channel is closed when the controller
// stops.
func (c *Controller) Inbound() <-chan *Envelope {
	return c.inbound
}

// PendingCount returns the number of requests awaiting a reply.
func (c *Controller) PendingCount() int {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	return len(c.pending)
}

// SendRequest sends a request and waits for its reply.
//
// This method assigns the next id, sends the request, and blocks until a
// matching reply arrives or the timeout expires. A non-positive timeout uses
// DefaultRequestTimeout.
//
// Returns the raw result on success, a *errors.ProtocolError if the host
// replied with an error, or an error wrapping ErrRequestTimeout.
func (c *Controller) SendRequest(
	ctx context.Context,
	method string,
	params any,
	timeout time.Duration,
) (json.RawMessage, error) {
	if c.terminated.Load() {
		return nil, errors.ErrTornDown
	}

	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	id := c.nextID.Add(1)

	env, err := newRequest(id, method, params)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(env)
	if err != nil {
		c.log.Error("Failed to marshal request", "error", err)

		return nil, fmt.Errorf("marshal request: %w", err)
	}

	responseChan := make(chan *Envelope, 1)

	c.pendingMu.Lock()
	c.pending[id] = &pendingRequest{method: method, response: responseChan}
	c.pendingMu.Unlock()

	c.log.Debug("Sending request", "request_id", id, "method", method)

	if err := c.transport.SendMessage(ctx, data); err != nil {
		c.forget(id)
		c.log.Error("Failed to send request", "request_id", id, "error", err)

		return nil, fmt.Errorf("send request: %w", err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case reply := <-responseChan:
		return c.settle(id, method, reply)

	case <-timer.C:
		if !c.forget(id) {
			// The reply claimed the entry first and is already in the channel.
			return c.settle(id, method, <-responseChan)
		}

		c.log.Warn("Request timed out", "request_id", id, "method", method, "timeout", timeout)

		return nil, fmt.Errorf("%s: %w after %s", method, errors.ErrRequestTimeout, timeout)

	case <-c.done:
		if !c.forget(id) {
			return c.settle(id, method, <-responseChan)
		}

		if c.terminated.Load() {
			return nil, errors.ErrTornDown
		}

		if err := c.FatalError(); err != nil {
			c.log.Warn("Transport error during request", "request_id", id, "error", err)

			return nil, fmt.Errorf("transport error: %w", err)
		}

		return nil, errors.ErrControllerStopped

	case <-ctx.Done():
		if !c.forget(id) {
			return c.settle(id, method, <-responseChan)
		}

		c.log.Debug("Request cancelled", "request_id", id)

		return nil, ctx.Err()
	}
}

// settle converts a claimed reply into the caller's outcome.
func (c *Controller) settle(id int64, method string, reply *Envelope) (json.RawMessage, error) {
	if reply.Error != nil {
		c.log.Warn("Request returned error", "request_id", id, "method", method, "error", reply.Error.Message)

		return nil, &errors.ProtocolError{Code: reply.Error.Code, Message: reply.Error.Message}
	}

	c.log.Debug("Received reply", "request_id", id)

	return reply.Result, nil
}

// forget removes a pending entry. It reports false if a reply already claimed it.
func (c *Controller) forget(id int64) bool {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	if _, ok := c.pending[id]; !ok {
		return false
	}

	delete(c.pending, id)

	return true
}

// SendNotification sends a notification. No id is assigned and no reply is expected.
func (c *Controller) SendNotification(ctx context.Context, method string, params any) error {
	if c.terminated.Load() {
		return errors.ErrTornDown
	}

	env, err := newNotification(method, params)
	if err != nil {
		return err
	}

	c.log.Debug("Sending notification", "method", method)

	return c.send(ctx, env)
}

// Reply sends a success reply to a host request, echoing its id.
func (c *Controller) Reply(ctx context.Context, id json.RawMessage, result any) error {
	if c.terminated.Load() {
		return errors.ErrTornDown
	}

	env, err := newResultReply(id, result)
	if err != nil {
		return err
	}

	return c.send(ctx, env)
}

// ReplyError sends an error reply to a host request, echoing its id.
func (c *Controller) ReplyError(ctx context.Context, id json.RawMessage, code int, message string) error {
	if c.terminated.Load() {
		return errors.ErrTornDown
	}

	return c.send(ctx, newErrorReply(id, code, message))
}

// send marshals and writes one envelope.
func (c *Controller) send(ctx context.Context, env *Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		c.log.Error("Failed to marshal envelope", "error", err)

		return fmt.Errorf("marshal envelope: %w", err)
	}

	if err := c.transport.SendMessage(ctx, data); err != nil {
		c.log.Error("Failed to send envelope", "method", env.Method, "error", err)

		return fmt.Errorf("send envelope: %w", err)
	}

	return nil
}

// streamClosed fails the controller when the host ends the stream while it is
// still live, so pending requests and the consumer stop waiting.
func (c *Controller) streamClosed() {
	select {
	case <-c.done:
		c.log.Debug("Message channel closed")
	default:
		c.log.Info("Host closed the message stream")
		c.SetFatalError(fmt.Errorf("%w: host closed the stream", errors.ErrTransportClosed))
	}
}

// readLoop reads messages from the transport and routes them.
func (c *Controller) readLoop(
	ctx context.Context,
	messages <-chan json.RawMessage,
	errs <-chan error,
) {
	defer close(c.inbound)
	defer c.log.Debug("Protocol read loop stopped")

	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				c.streamClosed()

				return
			}

			c.handleMessage(ctx, msg)

		case err, ok := <-errs:
			if !ok {
				// Keep draining messages; the message channel closing ends the loop.
				errs = nil

				continue
			}

			if err != nil {
				c.log.Debug("Transport error in protocol", "error", err)
				c.SetFatalError(err)

				return
			}

		case <-c.done:
			c.log.Debug("Protocol controller stop signal received")

			return

		case <-ctx.Done():
			c.log.Debug("Context cancelled in protocol read loop")

			return
		}
	}
}

// handleMessage decodes one inbound message and routes it by kind.
func (c *Controller) handleMessage(ctx context.Context, data json.RawMessage) {
	if c.terminated.Load() {
		return
	}

	env, err := Decode(data)
	if err != nil {
		c.log.Debug("Discarding inbound message", "error", err)

		return
	}

	switch env.Kind() {
	case KindReply:
		c.handleReply(env)

	case KindRequest, KindNotification:
		select {
		case c.inbound <- env:
		case <-c.done:
		case <-ctx.Done():
		}
	}
}

// handleReply routes a reply to the waiting request.
func (c *Controller) handleReply(env *Envelope) {
	id, ok := env.IntID()
	if !ok {
		c.log.Debug("Reply with non-integer id ignored", "id", env.IDString())

		return
	}

	// Find and claim pending request atomically
	c.pendingMu.Lock()

	pending, exists := c.pending[id]
	if exists {
		delete(c.pending, id)
	}

	c.pendingMu.Unlock()

	if !exists {
		c.log.Debug("No pending request for reply", "request_id", id)

		return
	}

	c.log.Debug("Routing reply", "request_id", id, "method", pending.method)

	// We own the entry now; the channel is buffered so this never blocks.
	pending.response <- env
}
