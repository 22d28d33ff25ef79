// Package sizeobs reports the rendered size of the app to the host.
//
// An Observer watches a Surface for layout changes, records the latest
// measured size and reports it once the changes settle. Reports are trailing
// debounced; a forced report bypasses the debounce window.
package sizeobs
