// Package client implements the app side of the host conversation.
//
// The Client wires a transport to the protocol Controller, performs the
// initialize handshake, routes host notifications to the app's callbacks,
// reports the rendered size and answers the host's teardown request.
//
// Host requests and notifications are handled serially on one event loop
// goroutine, in arrival order. Handlers may issue requests to the host from
// that goroutine because replies are resolved by the Controller's own reader.
package client
