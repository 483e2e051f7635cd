package client

import (
	"github.com/ValentinKolb/dSync/rpc/common"
	"github.com/ValentinKolb/dSync/rpc/serializer"
	"github.com/ValentinKolb/dSync/rpc/transport"
)

// NewRPCCoordinator creates a client for the coordination primitives of a coordinator server.
// The returned client implements coordinator.IPrimitives.
func NewRPCCoordinator(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (*RPCCoordinator, error) {
	c := &RPCCoordinator{
		rpcClientAdapter{
			shardId:    common.ShardCoordinator,
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}

	// Connect the transport
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

// RPCCoordinator forwards all primitives to a remote coordinator
type RPCCoordinator struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see coordinator.IPrimitives)
// --------------------------------------------------------------------------

func (c *RPCCoordinator) SetParallelValueForKey(key, value string) error {
	_, err := c.invoke(common.NewSetRequest(key, value))
	return err
}

func (c *RPCCoordinator) GetParallelValueForKey(key string) (string, error) {
	resp, err := c.invoke(common.NewGetRequest(key))
	if err != nil {
		return "", err
	}
	return resp.Value, nil
}

func (c *RPCCoordinator) AcquireLock(name, caller string) (bool, error) {
	resp, err := c.invoke(common.NewAcquireLockRequest(name, caller))
	if err != nil {
		return false, err
	}
	return resp.Ok, nil
}

func (c *RPCCoordinator) ReleaseLock(name, caller string) error {
	_, err := c.invoke(common.NewReleaseLockRequest(name, caller))
	return err
}

func (c *RPCCoordinator) ReleaseLocks(caller string) error {
	_, err := c.invoke(common.NewReleaseLocksRequest(caller))
	return err
}

func (c *RPCCoordinator) ReleaseAllLocks(caller string) error {
	_, err := c.invoke(common.NewReleaseAllLocksRequest(caller))
	return err
}

func (c *RPCCoordinator) AcquireValueSet(caller string, tags ...string) (string, map[string]string, error) {
	resp, err := c.invoke(common.NewAcquireValueSetRequest(caller, tags))
	if err != nil {
		return "", nil, err
	}
	return resp.Key, resp.Data, nil
}

func (c *RPCCoordinator) ReleaseValueSet(caller string) error {
	_, err := c.invoke(common.NewReleaseValueSetRequest(caller))
	return err
}

func (c *RPCCoordinator) DisableValueSet(name, caller string) error {
	_, err := c.invoke(common.NewDisableValueSetRequest(name, caller))
	return err
}

func (c *RPCCoordinator) GetValueFromSet(key, caller string) (string, error) {
	resp, err := c.invoke(common.NewGetValueFromSetRequest(key, caller))
	if err != nil {
		return "", err
	}
	return resp.Value, nil
}

func (c *RPCCoordinator) ImportSharedLibrary(name string) (uint64, error) {
	resp, err := c.invoke(common.NewImportLibraryRequest(name))
	if err != nil {
		return 0, err
	}
	return resp.Port, nil
}
