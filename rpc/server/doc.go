// Package server implements the RPC server of the coordinator.
// It translates requests arriving on a transport into calls on the
// coordination primitives and serves shared libraries on their own endpoints.
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server adapters,
//     with the Handle method that processes a single request.
//
//   - NewCoordinatorServerAdapter: Adapter for the coordination primitives
//     (key/value, locks, value sets and library import), served on common.ShardCoordinator.
//
//   - NewLibraryServerAdapter: Adapter for the keywords of one shared library,
//     served on common.ShardLibrary.
//
//   - NewRPCServer: Factory function creating a server with the specified
//     transport and serializer. Requests are routed to the adapter of their shard.
//
//   - Broker: Starts one RPC server per imported shared library on an OS assigned port.
//
//   - ServeMetrics: Exposes the request metrics of one or more servers in the prometheus format.
//
// Usage Example:
//
//	config := common.ServerConfig{
//		Transport: common.ServerTransportConfig{Endpoint: "0.0.0.0:8270"},
//	}
//
//	s := server.NewRPCServer(config, tcp.NewTCPServerTransport(), serializer.NewBinarySerializer())
//	s.RegisterShard(common.ShardCoordinator, server.NewCoordinatorServerAdapter(coordinator.New()))
//
//	if err := s.ListenAndServe(); err != nil {
//		log.Fatalf("Server error: %v", err)
//	}
//
// Thread Safety:
//
//	The server handles requests of all connections concurrently, the adapters
//	rely on the thread safety of their targets. Listen must be called only once.
package server
