package worker

import (
	"github.com/ValentinKolb/dSync/lib/coordinator"
	"github.com/ValentinKolb/dSync/lib/library"
	"github.com/ValentinKolb/dSync/rpc/client"
	"github.com/ValentinKolb/dSync/rpc/common"
	"github.com/ValentinKolb/dSync/rpc/serializer"
	"github.com/ValentinKolb/dSync/rpc/transport"
)

// RemotePrimitives is a connection to a remote coordinator
type RemotePrimitives interface {
	coordinator.IPrimitives
	Close() error
}

// RemoteLibrary is a connection to a shared library endpoint
type RemoteLibrary interface {
	library.ILibrary
	Close() error
}

// Connector opens a connection to the coordinator at endpoint
type Connector func(endpoint string) (RemotePrimitives, error)

// LibraryDialer opens a connection to the shared library at endpoint
type LibraryDialer func(endpoint string) (RemoteLibrary, error)

// RPCConnector returns a Connector that uses the rpc client with a fresh
// transport per connection. The endpoints of config are replaced by the
// endpoint passed to the connector.
func RPCConnector(
	config common.ClientConfig,
	newTransport func() transport.IRPCClientTransport,
	s serializer.IRPCSerializer,
) Connector {
	return func(endpoint string) (RemotePrimitives, error) {
		return client.NewRPCCoordinator(config.WithEndpoint(endpoint), newTransport(), s)
	}
}

// RPCLibraryDialer returns a LibraryDialer that uses the rpc client, see RPCConnector
func RPCLibraryDialer(
	config common.ClientConfig,
	newTransport func() transport.IRPCClientTransport,
	s serializer.IRPCSerializer,
) LibraryDialer {
	return func(endpoint string) (RemoteLibrary, error) {
		return client.NewRPCLibrary(config.WithEndpoint(endpoint), newTransport(), s)
	}
}
