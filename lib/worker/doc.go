// Package worker implements the facade a single worker uses to coordinate
// with its peers. The same API runs against an in-process coordinator when
// no coordinator endpoint is configured, or against a remote coordinator over RPC.
//
// All calls are bound to the caller id of the worker. Waiting operations
// (locks, value sets, barriers) poll the coordinator until they succeed or
// their context is cancelled.
//
// Connectivity failures are reported as ErrNoConnection and drop the cached
// connection, the next call reconnects.
package worker
