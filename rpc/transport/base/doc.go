// Package base implements the framed stream transport shared by the tcp and
// unix packages. Those only contribute a connector that dials, listens and
// tunes sockets (IClientConnector, IServerConnector).
//
// Frames:
//
//	8 byte shard id | 8 byte request id | 4 byte length | payload
//
// All integers are big endian, payloads are limited to 16 MB. The request id
// lets a client keep many requests in flight on one connection, responses may
// arrive in any order.
//
// Client:
//
//	The client opens ConnectionsPerEndpoint connections per endpoint and picks
//	one round robin per request. Dialing and every request honour the timeout of
//	the client config. When the reader of a connection fails, all requests
//	pending on it fail at once and the reader reconnects a single time. Workers
//	then see a transport error and report the coordinator as unreachable.
//
// Server:
//
//	Listen binds the socket and returns its address, Serve accepts connections
//	until Close is called. Every connection has its own reader goroutine and a
//	bounded pool of handler goroutines, read buffers come from a sync.Pool.
//	Close closes the listener and every open connection, Serve returns once all
//	connection handlers have finished.
package base
