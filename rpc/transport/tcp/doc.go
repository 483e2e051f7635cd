// Package tcp provides the TCP connectors for the framed stream transport of
// the base package (connection pooling, request multiplexing, buffer reuse).
//
// Shared libraries are always served over TCP by the broker, also when the
// coordinator itself listens on a unix socket.
package tcp
