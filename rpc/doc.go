// Package rpc connects workers to the coordinator.
//
// Subpackages:
//
//   - common: the Message protocol shared by client and server, the client
//     and server configuration and the logger setup.
//
//   - transport: pluggable byte transports (tcp, unix, http). Requests carry a
//     shard id, the coordinator is shard 1 and every shared library runs on
//     shard 2 of its own endpoint.
//
//   - serializer: Message encodings (binary, json, gob, msgpack).
//
//   - server: the RPC server, the adapters translating messages to calls on the
//     coordinator primitives and shared libraries, and the shared library broker.
//
//   - client: coordinator and library implementations that forward every call
//     to a remote server, used by lib/worker in distributed mode.
package rpc
