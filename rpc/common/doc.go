// Package common provides core data structures and utilities shared across
// the coordination service. It defines fundamental types, configuration
// structures, and protocol elements used by other packages.
//
// The package focuses on:
//   - Message protocol definition for communication between workers and the coordinator
//   - Configuration structures for client and server components
//   - Custom logging implementation integrated with Dragonboat's logger facade
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication, with a flexible
//     structure that adapts to the different operation types. Includes factory
//     methods for creating the various request and response messages. Errors
//     travel as message plus store.RetCode and are rebuilt by AsError.
//
//   - MessageType: Enumeration of all supported operations. The string form of
//     each type is the wire method name (acquire_lock, get_value_from_set, ...).
//
//   - ServerConfig / ClientConfig: Configuration of the coordinator server and
//     of rpc clients, including the transport sub configurations.
//
//   - Logger: Custom logging implementation that plugs into Dragonboat's
//     logger facade while providing consistent formatting across the application.
package common
