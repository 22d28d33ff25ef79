// Package protocol implements the JSON-RPC envelope exchange between an
// embedded app and its host.
//
// The protocol package provides a Controller that owns the inbound message
// stream of a Transport and correlates outgoing requests with their replies,
// and a Dispatcher that routes host-initiated requests and notifications to
// handlers by method name.
//
// The Controller handles:
//   - Discarding inbound traffic that is not a "2.0" envelope
//   - Sending requests with strictly increasing integer ids
//   - Resolving each pending request exactly once: reply, error reply or timeout
//   - Forwarding requests and notifications to a single consumer via Inbound()
//   - Terminal mode after the host tears the resource down
//
// Example usage:
//
//	controller := protocol.NewController(log, transport)
//	controller.Start(ctx)
//
//	result, err := controller.SendRequest(ctx, "ui/initialize", params, 5*time.Second)
//
//	for env := range controller.Inbound() {
//	    dispatcher.Dispatch(ctx, controller, env)
//	}
package protocol
