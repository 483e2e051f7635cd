package server

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/ValentinKolb/dSync/lib/library"
	"github.com/ValentinKolb/dSync/rpc/common"
	"github.com/ValentinKolb/dSync/rpc/serializer"
	"github.com/ValentinKolb/dSync/rpc/transport"
	"golang.org/x/sync/errgroup"
)

const defaultLibraryHost = "127.0.0.1"

// sharedLibrary is a library instance served on its own endpoint
type sharedLibrary struct {
	port   uint64
	server *RPCServer
}

// Broker starts shared libraries on demand. Each library is instantiated once
// and served by a dedicated RPC server on an OS assigned port. Broker
// implements coordinator.LibraryImporter.
type Broker struct {
	registry     *library.Registry
	config       common.ServerConfig
	newTransport func() transport.IRPCServerTransport
	serializer   serializer.IRPCSerializer

	mu    sync.Mutex
	libs  map[string]*sharedLibrary
	group *errgroup.Group
}

// NewBroker creates a broker for the libraries of registry.
// The library servers bind to config.LibraryHost (default 127.0.0.1) and use
// a fresh transport from newTransport each.
func NewBroker(
	registry *library.Registry,
	config common.ServerConfig,
	newTransport func() transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) *Broker {
	host := config.LibraryHost
	if host == "" {
		host = defaultLibraryHost
	}
	config.Transport.Endpoint = net.JoinHostPort(host, "0")

	return &Broker{
		registry:     registry,
		config:       config,
		newTransport: newTransport,
		serializer:   serializer,
		libs:         make(map[string]*sharedLibrary),
		group:        new(errgroup.Group),
	}
}

// Import returns the port of the named library, starting it on first use.
// Unknown names fail with store.ErrUnknownLibrary.
func (b *Broker) Import(name string) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if lib, ok := b.libs[name]; ok {
		return lib.port, nil
	}

	instance, err := b.registry.New(name)
	if err != nil {
		return 0, err
	}

	srv := NewRPCServer(b.config, b.newTransport(), b.serializer)
	srv.RegisterShard(common.ShardLibrary, NewLibraryServerAdapter(instance))

	addr, err := srv.Listen()
	if err != nil {
		return 0, fmt.Errorf("failed to start shared library %q: %w", name, err)
	}

	port, err := portOf(addr)
	if err != nil {
		_ = srv.Stop()
		return 0, err
	}

	b.group.Go(srv.Serve)
	b.libs[name] = &sharedLibrary{port: port, server: srv}

	Logger.Infof("Shared library %q serving on %s", name, addr)
	return port, nil
}

// Shutdown stops all library servers, then waits for every one of them to terminate
func (b *Broker) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for name, lib := range b.libs {
		if err := lib.server.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop shared library %q: %w", name, err))
		}
	}

	if err := b.group.Wait(); err != nil {
		errs = append(errs, err)
	}

	if len(b.libs) > 0 {
		Logger.Infof("Stopped %d shared libraries", len(b.libs))
	}

	b.libs = make(map[string]*sharedLibrary)
	b.group = new(errgroup.Group)
	return errors.Join(errs...)
}

// Libraries returns the running libraries and their ports
func (b *Broker) Libraries() map[string]uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	ports := make(map[string]uint64, len(b.libs))
	for name, lib := range b.libs {
		ports[name] = lib.port
	}
	return ports
}

// portOf extracts the port of a bound address
func portOf(addr net.Addr) (uint64, error) {
	_, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return 0, fmt.Errorf("cannot determine port of %s: %w", addr, err)
	}
	return strconv.ParseUint(port, 10, 64)
}
