// Package client implements the RPC clients of a coordinator and its shared libraries.
// The clients implement coordinator.IPrimitives and library.ILibrary, so a
// worker can use a remote coordinator exactly like a local one.
//
// Key Components:
//
//   - NewRPCCoordinator: Creates a client that forwards every coordination
//     primitive to the coordinator shard of a server.
//
//   - NewRPCLibrary: Creates a client that runs keywords on a shared library endpoint.
//
// Errors:
//
//	Errors reported by the server are returned as *store.Error and keep their
//	code, so errors.Is(err, store.ErrNoMatch) works across the wire. Failures
//	of the transport wrap common.ErrTransport.
//
// Usage Example:
//
//	config := common.ClientConfig{
//		TimeoutSecond: 5,
//		Transport: common.ClientTransportConfig{
//			Endpoints:  []string{"localhost:8270"},
//			RetryCount: 3,
//		},
//	}
//
//	c, err := client.NewRPCCoordinator(config, tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	ok, _ := c.AcquireLock("db", "worker-1")
//
// Thread Safety:
//
//	All clients are thread-safe and can be used concurrently from
//	multiple goroutines without additional synchronization.
package client
