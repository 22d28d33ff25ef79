package stdio

import (
	"io"
	"log/slog"
)

// Pipe returns two connected in-memory transports. Whatever one side sends
// the other side reads. Closing either side ends the reads of both.
func Pipe(log *slog.Logger) (app, host *Transport) {
	appReader, hostWriter := io.Pipe()
	hostReader, appWriter := io.Pipe()

	app = New(log.With("side", "app"), appReader, appWriter)
	host = New(log.With("side", "host"), hostReader, hostWriter)

	return app, host
}
