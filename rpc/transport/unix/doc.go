// Package unix provides the unix domain socket connectors for the framed stream
// transport of the base package. The endpoint is the socket path, a stale socket
// file is removed before listening.
//
// Use it when all workers run on the coordinator host. The default server buffer
// is 64 KB.
package unix
