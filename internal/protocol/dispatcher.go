package protocol

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"slices"
	"sync"
)

// ErrSkipReply tells the Dispatcher to leave a request unanswered.
var ErrSkipReply = stderrors.New("skip reply")

// NotificationHandler handles a host notification. Notifications get no reply,
// so handlers report nothing back.
type NotificationHandler func(ctx context.Context, params json.RawMessage)

// RequestHandler handles a host-initiated request.
//
// The handler should return a result value or an error. The Dispatcher
// automatically wraps the outcome in a reply envelope carrying the request id,
// unless the error is ErrSkipReply.
type RequestHandler func(ctx context.Context, req *Envelope) (any, error)

// Dispatcher routes host requests and notifications to handlers by method name.
//
// Only one handler can be registered per method. Registering a handler for the
// same method twice overrides the previous handler.
type Dispatcher struct {
	log *slog.Logger

	mu            sync.RWMutex
	notifications map[string]NotificationHandler
	requests      map[string]RequestHandler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		log:           log.With("component", "dispatcher"),
		notifications: make(map[string]NotificationHandler, 8),
		requests:      make(map[string]RequestHandler, 2),
	}
}

// HandleNotification registers a handler for notifications with the given method.
func (d *Dispatcher) HandleNotification(method string, handler NotificationHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.log.Debug("Registering notification handler", "method", method)
	d.notifications[method] = handler
}

// HandleRequest registers a handler for host requests with the given method.
func (d *Dispatcher) HandleRequest(method string, handler RequestHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.log.Debug("Registering request handler", "method", method)
	d.requests[method] = handler
}

// Methods returns the sorted list of methods with a registered handler.
func (d *Dispatcher) Methods() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	methods := make([]string, 0, len(d.notifications)+len(d.requests))
	for m := range d.notifications {
		methods = append(methods, m)
	}

	for m := range d.requests {
		methods = append(methods, m)
	}

	slices.Sort(methods)

	return methods
}

// Dispatch invokes the handler registered for env.
//
// Notifications and requests with no registered handler are dropped silently
// so that hosts can introduce new methods without breaking older apps.
// Request outcomes are written through r.
func (d *Dispatcher) Dispatch(ctx context.Context, r Replier, env *Envelope) {
	switch env.Kind() {
	case KindNotification:
		d.mu.RLock()
		handler, ok := d.notifications[env.Method]
		d.mu.RUnlock()

		if !ok {
			d.log.Debug("Dropping unhandled notification", "method", env.Method)

			return
		}

		handler(ctx, env.Params)

	case KindRequest:
		d.mu.RLock()
		handler, ok := d.requests[env.Method]
		d.mu.RUnlock()

		if !ok {
			d.log.Debug("Dropping unhandled request", "method", env.Method, "id", env.IDString())

			return
		}

		result, err := handler(ctx, env)
		if stderrors.Is(err, ErrSkipReply) {
			d.log.Debug("Request left unanswered", "method", env.Method, "id", env.IDString())

			return
		}

		if err != nil {
			d.log.Warn("Request handler returned error", "method", env.Method, "error", err)

			if replyErr := r.ReplyError(ctx, env.ID, CodeInternalError, err.Error()); replyErr != nil {
				d.log.Debug("Could not send error reply", "error", replyErr)
			}

			return
		}

		if replyErr := r.Reply(ctx, env.ID, result); replyErr != nil {
			d.log.Debug("Could not send reply", "method", env.Method, "error", replyErr)
		}

	default:
		d.log.Debug("Dispatch ignored envelope", "kind", env.Kind().String())
	}
}
