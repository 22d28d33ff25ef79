// Package message provides typed views of the envelopes exchanged with the host.
//
// Inbound notifications are parsed into a closed set of Notification variants
// plus an Unrecognized variant that callers can safely ignore. Outbound
// params and the initialize reply have concrete types as well.
package message
