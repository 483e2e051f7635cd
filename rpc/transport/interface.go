package transport

import (
	"errors"
	"net"

	"github.com/ValentinKolb/dSync/rpc/common"
)

// ErrResponseLost is returned by Send when the request was handed to the server
// but no response arrived. The server may have applied it, so it is never retried.
var ErrResponseLost = errors.New("request sent but response lost")

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests
// This function is called by a server transport layer when a request is received
// It takes a shardId and a request as parameters and returns a response
type ServerHandleFunc func(shardId uint64, req []byte) (resp []byte)

// IRPCServerTransport is the interface for the RPC transport layer.
// The lifecycle is RegisterHandler -> Listen -> Serve -> Close.
type IRPCServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler should be called when a request is received
	// The transport layer is responsible for routing the request to the appropriate shard
	RegisterHandler(handler ServerHandleFunc)
	// Listen binds the endpoint of the config and returns the bound address.
	// An endpoint with port 0 lets the OS pick a free port.
	Listen(config common.ServerConfig) (net.Addr, error)
	// Serve accepts requests until Close is called.
	// It returns nil after a regular Close.
	Serve() error
	// Close stops accepting requests and closes all open connections
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request to the server and returns the response.
	// Only requests that never reached the server are retried, see ErrResponseLost.
	Send(shardId uint64, req []byte) (resp []byte, err error)
	// Close closes the transport connection
	Close() error
}
