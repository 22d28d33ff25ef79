package sizeobs

import (
	stderrors "errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultDebounce is the default debounce window for size reports.
const DefaultDebounce = 100 * time.Millisecond

// Reporter delivers a size to the host.
type Reporter func(Size)

// Observer watches a Surface and reports its size through a Reporter.
type Observer struct {
	log     *slog.Logger
	surface Surface
	report  Reporter
	window  time.Duration

	debouncer *Debouncer

	mu          sync.Mutex
	last        Size
	disconnects []Disconnect
	started     bool
	closed      bool
}

// New creates an Observer. A zero window selects DefaultDebounce; a negative
// window disables debouncing.
func New(log *slog.Logger, surface Surface, report Reporter, window time.Duration) *Observer {
	if window == 0 {
		window = DefaultDebounce
	}

	o := &Observer{
		log:     log.With("component", "size_observer"),
		surface: surface,
		report:  report,
		window:  window,
	}
	o.debouncer = NewDebouncer(window, o.flush)

	return o
}

// Start attaches the observer to the surface and issues an initial trigger.
//
// A ResizeObserver is preferred. When the surface lacks one, or it reports
// ErrUnsupported, window resize events and tree mutations are watched
// instead. Missing fallback capabilities are skipped.
func (o *Observer) Start() error {
	o.mu.Lock()
	if o.closed || o.started {
		o.mu.Unlock()
		return nil
	}
	o.started = true
	o.mu.Unlock()

	disconnects, err := o.attach()
	if err != nil {
		for _, disconnect := range disconnects {
			disconnect()
		}

		return err
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()

		for _, disconnect := range disconnects {
			disconnect()
		}

		return nil
	}
	o.disconnects = disconnects
	o.mu.Unlock()

	o.Trigger()

	return nil
}

// attach registers Trigger with every available observation capability.
func (o *Observer) attach() ([]Disconnect, error) {
	if ro, ok := o.surface.(ResizeObserver); ok {
		disconnect, err := ro.ObserveResize(o.Trigger)

		switch {
		case err == nil:
			o.log.Debug("Observing document resize")
			return []Disconnect{disconnect}, nil
		case stderrors.Is(err, ErrUnsupported):
			o.log.Debug("Resize observation unsupported, falling back")
		default:
			return nil, err
		}
	}

	var disconnects []Disconnect

	if we, ok := o.surface.(WindowEvents); ok {
		disconnect, err := we.OnWindowResize(o.Trigger)

		switch {
		case err == nil:
			disconnects = append(disconnects, disconnect)
		case !stderrors.Is(err, ErrUnsupported):
			return disconnects, err
		}
	}

	if mo, ok := o.surface.(MutationObserver); ok {
		disconnect, err := mo.ObserveMutations(o.Trigger, DefaultMutationOptions())

		switch {
		case err == nil:
			disconnects = append(disconnects, disconnect)
		case !stderrors.Is(err, ErrUnsupported):
			return disconnects, err
		}
	}

	o.log.Debug("Observing window resize and mutations", "observers", len(disconnects))

	return disconnects, nil
}

// Trigger records the current size and (re)schedules a report.
func (o *Observer) Trigger() {
	if !o.record() {
		return
	}

	o.debouncer.Schedule()
}

// Force cancels any pending report and reports the current size immediately.
func (o *Observer) Force() {
	if !o.record() {
		return
	}

	o.debouncer.Cancel()
	o.flush()
}

// Last returns the most recently recorded size.
func (o *Observer) Last() Size {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.last
}

// Stop cancels the pending report and disconnects every observation.
// It is safe to call more than once.
func (o *Observer) Stop() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}

	o.closed = true
	disconnects := o.disconnects
	o.disconnects = nil
	o.mu.Unlock()

	o.debouncer.Stop()

	for _, disconnect := range disconnects {
		if disconnect != nil {
			disconnect()
		}
	}

	o.log.Debug("Size observer stopped")
}

// Closed reports whether Stop has been called.
func (o *Observer) Closed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.closed
}

// record measures the surface. It returns false once the observer is closed.
func (o *Observer) record() bool {
	size := o.surface.ScrollSize()

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return false
	}

	o.last = size

	return true
}

// flush reports the last recorded size unless the observer is closed.
func (o *Observer) flush() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	size := o.last
	o.mu.Unlock()

	o.log.Debug("Reporting size", "width", size.Width, "height", size.Height)
	o.report(size)
}
