// Package appbridge is the client side of the conversation between an
// embedded MCP UI app and its host.
//
// The host sends tool results, context changes and teardown requests as
// JSON-RPC 2.0 envelopes. The client correlates replies to its own requests,
// dispatches host notifications to the app's callbacks, keeps the host
// context (theme, display mode, styles) applied to the app document and
// reports the app's rendered size back to the host.
//
// # Basic Usage
//
// Register a render callback and an error callback, then start the client:
//
//	client := appbridge.NewClient()
//	defer client.Close()
//
//	err := client.Start(ctx,
//	    appbridge.WithRender(func(ctx context.Context, out *appbridge.ToolOutput) {
//	        if out.Empty {
//	            return
//	        }
//	        render(out.Payload)
//	    }),
//	    appbridge.WithErrorHandler(func(ctx context.Context, msg string) {
//	        showError(msg)
//	    }),
//	    appbridge.WithDocument(doc),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	<-client.Done() // closed once the host tears the app down
//
// WithClient wraps the same lifecycle for callers that only need the client
// for the duration of a function.
//
// # Initialization
//
// Start performs the initialize handshake. A host that rejects or ignores
// it does not fail Start; the client keeps the default context (light theme,
// inline display) and the failure is available from InitializationError.
//
// # Logging
//
// For detailed operation tracking, use WithLogger:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	err := client.Start(ctx, appbridge.WithLogger(logger), ...)
//
// # Error Handling
//
// Requests to the host return typed errors:
//
//	_, err := client.CallTool(ctx, "get_forecast", args)
//	if errors.Is(err, appbridge.ErrRequestTimeout) {
//	    // the host did not answer in time
//	}
//	if hostErr, ok := errors.AsType[*appbridge.ProtocolError](err); ok {
//	    log.Printf("host rejected call: %d %s", hostErr.Code, hostErr.Message)
//	}
//	if errors.Is(err, appbridge.ErrTornDown) {
//	    // the host tore the app down
//	}
package appbridge
