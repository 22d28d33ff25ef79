// Package errors defines error types for the app bridge.
//
// This package provides structured error types for the failure scenarios of a
// host conversation: request timeouts, host-reported protocol errors, tool
// execution errors, malformed inbound messages and a failed initialize
// handshake. All error types support unwrapping and can be checked using
// errors.Is, errors.As, and errors.AsType.
package errors
