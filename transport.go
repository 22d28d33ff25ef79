package appbridge

import (
	"io"
	"log/slog"

	"github.com/wagiedev/mcp-app-bridge-go/internal/config"
	"github.com/wagiedev/mcp-app-bridge-go/internal/stdio"
)

// Transport defines the message channel between the app and its host.
// Implement this to provide custom transports for testing, mocking,
// or embedding hosts.
//
// The default implementation frames newline-delimited JSON over the process
// stdin and stdout. Custom transports can be injected via WithTransport.
type Transport = config.Transport

// NewStdioTransport creates a newline-delimited JSON transport over the
// process stdin and stdout.
func NewStdioTransport(log *slog.Logger) Transport {
	if log == nil {
		log = NopLogger()
	}

	return stdio.NewStdio(log)
}

// NewStreamTransport creates a newline-delimited JSON transport reading from
// r and writing to w. Close closes r and w when they implement io.Closer.
func NewStreamTransport(log *slog.Logger, r io.Reader, w io.Writer) Transport {
	if log == nil {
		log = NopLogger()
	}

	return stdio.New(log, r, w)
}

// NewPipe returns two connected in-memory transports, one for the app and
// one for an in-process host.
func NewPipe(log *slog.Logger) (app, host Transport) {
	if log == nil {
		log = NopLogger()
	}

	return stdio.Pipe(log)
}
