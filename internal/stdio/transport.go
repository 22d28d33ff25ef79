package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/wagiedev/mcp-app-bridge-go/internal/config"
	"github.com/wagiedev/mcp-app-bridge-go/internal/errors"
)

// maxScanTokenSize is the maximum buffer size for one inbound line.
const maxScanTokenSize = 1024 * 1024 // 1MB

// Transport implements config.Transport over newline-delimited JSON.
type Transport struct {
	log    *slog.Logger
	reader io.Reader
	writer io.Writer
	closer func() error

	writeMu sync.Mutex // Serializes writes
	mu      sync.Mutex // Protects lifecycle flags
	started bool
	closed  bool
	reading bool
}

// Compile-time verification that Transport implements the config.Transport interface.
var _ config.Transport = (*Transport)(nil)

// New creates a transport reading envelopes from r and writing them to w.
//
// If r or w implement io.Closer they are closed by Close.
func New(log *slog.Logger, r io.Reader, w io.Writer) *Transport {
	t := &Transport{
		log:    log.With("component", "stdio_transport"),
		reader: r,
		writer: w,
	}

	t.closer = func() error {
		var firstErr error

		for _, v := range []any{r, w} {
			if c, ok := v.(io.Closer); ok {
				if err := c.Close(); err != nil && firstErr == nil {
					firstErr = err
				}
			}
		}

		return firstErr
	}

	return t
}

// NewStdio creates a transport over the process stdin and stdout.
// Close leaves the process streams open.
func NewStdio(log *slog.Logger) *Transport {
	t := New(log, os.Stdin, os.Stdout)
	t.closer = func() error { return nil }

	return t
}

// Start marks the transport ready.
func (t *Transport) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errors.ErrTransportClosed
	}

	t.started = true
	t.log.Debug("Stdio transport started")

	return nil
}

// ReadMessages reads newline-delimited envelopes until the reader is exhausted.
//
// Blank lines are skipped. Lines are forwarded without validation; the
// protocol layer discards anything that is not an envelope. The goroutine
// closes both channels when it exits.
func (t *Transport) ReadMessages(
	ctx context.Context,
) (<-chan json.RawMessage, <-chan error) {
	messages := make(chan json.RawMessage)
	errs := make(chan error, 1)

	t.mu.Lock()
	alreadyReading := t.reading
	t.reading = true
	t.mu.Unlock()

	if alreadyReading {
		errs <- fmt.Errorf("read messages: already reading")

		close(messages)
		close(errs)

		return messages, errs
	}

	go func() {
		defer close(messages)
		defer close(errs)
		defer t.log.Debug("ReadMessages goroutine stopped")

		scanner := bufio.NewScanner(t.reader)
		buf := make([]byte, 64*1024)
		scanner.Buffer(buf, maxScanTokenSize)

		messageCount := 0

		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			msg := make(json.RawMessage, len(line))
			copy(msg, line)

			messageCount++
			t.log.Debug("Received message from host", "message_count", messageCount)

			select {
			case messages <- msg:
			case <-ctx.Done():
				t.log.Debug("Context cancelled during message send", "error", ctx.Err())

				errs <- ctx.Err()

				return
			}
		}

		if err := scanner.Err(); err != nil && !t.isClosed() {
			t.log.Error("Scanner error while reading host input", "error", err)

			errs <- fmt.Errorf("scanner error: %w", err)
		}
	}()

	return messages, errs
}

// SendMessage writes one envelope followed by a newline.
//
// This method is safe for concurrent use and respects context cancellation
// even during blocking writes.
func (t *Transport) SendMessage(ctx context.Context, data []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	t.mu.Lock()
	closed, started := t.closed, t.started
	t.mu.Unlock()

	if closed {
		return errors.ErrTransportClosed
	}

	if !started {
		return errors.ErrTransportNotConnected
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	t.log.Debug("Sending message to host", "data_len", len(data))

	// Explicit copy so the caller's backing array is never mutated.
	if len(data) == 0 || data[len(data)-1] != '\n' {
		newData := make([]byte, len(data)+1)
		copy(newData, data)
		newData[len(data)] = '\n'
		data = newData
	}

	done := make(chan error, 1)

	go func() {
		_, err := t.writer.Write(data)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.log.Error("Failed to write message to host", "error", err)

			return fmt.Errorf("write message: %w", err)
		}

		return nil

	case <-ctx.Done():
		t.log.Debug("Context cancelled during write")

		select {
		case <-done:
		case <-time.After(time.Second):
			t.log.Warn("Write goroutine did not exit after cancellation, potential leak")
		}

		return ctx.Err()
	}
}

// IsReady reports whether the transport is started and not closed.
func (t *Transport) IsReady() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.started && !t.closed
}

// Close releases the underlying streams, unblocking pending reads and writes.
// It's safe to call Close multiple times.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}

	t.closed = true
	t.mu.Unlock()

	t.log.Debug("Closing stdio transport")

	if err := t.closer(); err != nil {
		return fmt.Errorf("close stdio transport: %w", err)
	}

	return nil
}

// isClosed reports whether Close has been called.
func (t *Transport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.closed
}
