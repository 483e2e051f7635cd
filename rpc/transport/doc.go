// Package transport defines how request bytes travel between workers and the
// coordinator. Implementations live in the tcp, unix and http subpackages, tcp
// and unix share the framed stream protocol of the base package.
//
// A client transport sends a request for a shard and returns the response.
// A server transport accepts requests and hands them to a ServerHandleFunc
// together with the shard id. Binding (Listen) and serving (Serve) are separate
// steps, so the shared library broker can learn the port chosen by the OS before
// it reports it to a worker.
package transport
