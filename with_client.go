package appbridge

import (
	"context"
	"fmt"
)

// WithClient manages client lifecycle with automatic cleanup.
//
// This helper creates a client, starts it with the provided options, executes the
// callback function, and ensures proper cleanup via Close() when done.
//
// The callback receives a started Client. A failed initialize handshake does
// not prevent the callback from running; it is logged at warn level and stays
// available from InitializationError. If the callback returns an error, it is
// returned to the caller. If Close() fails, a warning is logged but does not
// override the callback's error.
//
// Example usage:
//
//	err := appbridge.WithClient(ctx, func(c appbridge.Client) error {
//	    if _, err := c.RequestDisplayMode(ctx, appbridge.DisplayModeFullscreen); err != nil {
//	        return err
//	    }
//
//	    <-c.Done()
//
//	    return nil
//	},
//	    appbridge.WithRender(render),
//	    appbridge.WithErrorHandler(showError),
//	)
func WithClient(ctx context.Context, fn func(Client) error, opts ...Option) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	client := NewClient()
	if err := client.Start(ctx, opts...); err != nil {
		return fmt.Errorf("failed to start client: %w", err)
	}

	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Warn("failed to close client", "error", closeErr)
		}
	}()

	if initErr := client.InitializationError(); initErr != nil {
		log.Warn("Host did not complete the initialize handshake, using default host context",
			"error", initErr)
	}

	return fn(client)
}

// Run starts a client and serves the host until it tears the app down, the
// host closes the stream, or ctx is cancelled.
//
// It returns nil when the session ends on the host side and ctx.Err() when
// ctx is cancelled first.
func Run(ctx context.Context, opts ...Option) error {
	return WithClient(ctx, func(c Client) error {
		select {
		case <-c.Done():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}, opts...)
}
