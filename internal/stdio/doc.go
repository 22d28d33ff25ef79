// Package stdio implements the host transport as newline-delimited JSON
// over a reader and a writer.
//
// An app embedded by a process host speaks over its own stdin and stdout.
// Pipe connects two transports in memory for in-process hosts and tests.
package stdio
