package client

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/dSync/lib/coordinator"
	"github.com/ValentinKolb/dSync/lib/library"
	"github.com/ValentinKolb/dSync/lib/library/builtin"
	"github.com/ValentinKolb/dSync/lib/store"
	"github.com/ValentinKolb/dSync/lib/valueset"
	"github.com/ValentinKolb/dSync/rpc/common"
	"github.com/ValentinKolb/dSync/rpc/serializer"
	"github.com/ValentinKolb/dSync/rpc/server"
	"github.com/ValentinKolb/dSync/rpc/transport"
	"github.com/ValentinKolb/dSync/rpc/transport/http"
	"github.com/ValentinKolb/dSync/rpc/transport/tcp"
	"github.com/ValentinKolb/dSync/rpc/transport/unix"
)

var (
	_ coordinator.IPrimitives = (*RPCCoordinator)(nil)
	_ library.ILibrary        = (*RPCLibrary)(nil)
)

type transportPair struct {
	name     string
	server   func() transport.IRPCServerTransport
	client   func() transport.IRPCClientTransport
	endpoint func(t *testing.T) string
}

var transports = []transportPair{
	{
		name:     "tcp",
		server:   tcp.NewTCPServerTransport,
		client:   tcp.NewTCPClientTransport,
		endpoint: func(*testing.T) string { return "127.0.0.1:0" },
	},
	{
		name:     "unix",
		server:   unix.NewUnixDefaultServerTransport,
		client:   unix.NewUnixClientTransport,
		endpoint: func(t *testing.T) string { return t.TempDir() + "/dsync.sock" },
	},
	{
		name:     "http",
		server:   http.NewHttpServerTransport,
		client:   http.NewHttpClientTransport,
		endpoint: func(*testing.T) string { return "127.0.0.1:0" },
	},
}

func clientConfig(endpoint string) common.ClientConfig {
	return common.ClientConfig{
		TimeoutSecond: 5,
		Transport: common.ClientTransportConfig{
			Endpoints:  []string{endpoint},
			RetryCount: 1,
		},
	}
}

// startCoordinator serves a coordinator and returns the address clients should dial
func startCoordinator(t *testing.T, tp transportPair, s serializer.IRPCSerializer, opts ...coordinator.Option) string {
	t.Helper()

	srv := server.NewRPCServer(common.ServerConfig{
		Transport: common.ServerTransportConfig{Endpoint: tp.endpoint(t)},
	}, tp.server(), s)
	srv.RegisterShard(common.ShardCoordinator, server.NewCoordinatorServerAdapter(coordinator.New(opts...)))

	addr, err := srv.Listen()
	if err != nil {
		t.Fatalf("Listen() failed: %v", err)
	}
	go func() { _ = srv.Serve() }()
	t.Cleanup(func() { _ = srv.Stop() })

	return addr.String()
}

func TestRPCCoordinator(t *testing.T) {
	sets := []valueset.ValueSet{
		{Name: "Admin", Tags: []string{"admin"}, Data: map[string]string{"user": "root"}},
		{Name: "Guest", Tags: []string{"guest"}, Data: map[string]string{"user": "anon"}},
	}

	for _, tp := range transports {
		t.Run(tp.name, func(t *testing.T) {
			s := serializer.NewBinarySerializer()
			addr := startCoordinator(t, tp, s, coordinator.WithValueSets(sets))

			c, err := NewRPCCoordinator(clientConfig(addr), tp.client(), s)
			if err != nil {
				t.Fatalf("NewRPCCoordinator() failed: %v", err)
			}
			defer c.Close()

			// key/value
			if err := c.SetParallelValueForKey("k", "v"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if v, err := c.GetParallelValueForKey("k"); err != nil || v != "v" {
				t.Errorf("Get = %q, %v, want v", v, err)
			}
			if v, err := c.GetParallelValueForKey("unset"); err != nil || v != "" {
				t.Errorf("Get(unset) = %q, %v, want empty", v, err)
			}

			// locks
			if ok, err := c.AcquireLock("L", "w1"); !ok || err != nil {
				t.Fatalf("AcquireLock(w1) = %v, %v", ok, err)
			}
			if ok, _ := c.AcquireLock("L", "w2"); ok {
				t.Errorf("w2 acquired a lock held by w1")
			}
			if err := c.ReleaseLock("L", "w2"); !errors.Is(err, store.ErrLockNotOwned) {
				t.Errorf("ReleaseLock(w2) = %v, want ErrLockNotOwned", err)
			}
			if err := c.ReleaseLocks("w1"); err != nil {
				t.Errorf("ReleaseLocks(w1) failed: %v", err)
			}
			if ok, _ := c.AcquireLock("L", "w2"); !ok {
				t.Errorf("w2 could not acquire L after release")
			}
			if err := c.ReleaseAllLocks("w2"); err != nil {
				t.Errorf("ReleaseAllLocks(w2) failed: %v", err)
			}

			// value sets
			name, data, err := c.AcquireValueSet("w1", "admin")
			if err != nil || name != "Admin" || data["user"] != "root" {
				t.Fatalf("AcquireValueSet = %q, %v, %v", name, data, err)
			}
			if name, _, err := c.AcquireValueSet("w2", "admin"); err != nil || name != "" {
				t.Errorf("AcquireValueSet of a held set = %q, %v, want try later", name, err)
			}
			if _, _, err := c.AcquireValueSet("w2", "missing"); !errors.Is(err, store.ErrNoMatch) {
				t.Errorf("AcquireValueSet(missing) = %v, want ErrNoMatch", err)
			}
			if v, err := c.GetValueFromSet("user", "w1"); err != nil || v != "root" {
				t.Errorf("GetValueFromSet = %q, %v", v, err)
			}
			if _, err := c.GetValueFromSet("user", "w2"); !errors.Is(err, store.ErrNotReserved) {
				t.Errorf("GetValueFromSet(w2) = %v, want ErrNotReserved", err)
			}
			if err := c.ReleaseValueSet("w1"); err != nil {
				t.Errorf("ReleaseValueSet failed: %v", err)
			}
			if err := c.DisableValueSet("Admin", "w1"); err != nil {
				t.Errorf("DisableValueSet failed: %v", err)
			}
			if _, _, err := c.AcquireValueSet("w1", "admin"); !errors.Is(err, store.ErrNoMatch) {
				t.Errorf("AcquireValueSet of disabled set = %v, want ErrNoMatch", err)
			}

			// no broker configured
			if _, err := c.ImportSharedLibrary("Counter"); !errors.Is(err, store.ErrLibraryNotEnabled) {
				t.Errorf("ImportSharedLibrary = %v, want ErrLibraryNotEnabled", err)
			}
		})
	}
}

func TestRPCLibrary(t *testing.T) {
	s := serializer.NewMsgpackSerializer()
	broker := server.NewBroker(builtin.NewRegistry(), common.ServerConfig{}, tcp.NewTCPServerTransport, s)
	defer broker.Shutdown()

	addr := startCoordinator(t, transports[0], s, coordinator.WithLibraryImporter(broker))

	c, err := NewRPCCoordinator(clientConfig(addr), tcp.NewTCPClientTransport(), s)
	if err != nil {
		t.Fatalf("NewRPCCoordinator() failed: %v", err)
	}
	defer c.Close()

	port, err := c.ImportSharedLibrary("Counter")
	if err != nil {
		t.Fatalf("ImportSharedLibrary failed: %v", err)
	}

	endpoint := net.JoinHostPort("127.0.0.1", strconv.FormatUint(port, 10))
	lib, err := NewRPCLibrary(clientConfig(endpoint), tcp.NewTCPClientTransport(), s)
	if err != nil {
		t.Fatalf("NewRPCLibrary() failed: %v", err)
	}
	defer lib.Close()

	if v, err := lib.RunKeyword("Increment", []string{"5"}); err != nil || v != "5" {
		t.Errorf("Increment 5 = %q, %v", v, err)
	}
	if v, err := lib.RunKeyword("get_count", nil); err != nil || v != "5" {
		t.Errorf("get_count = %q, %v", v, err)
	}
	if _, err := lib.RunKeyword("Missing", nil); !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("Missing keyword = %v, want ErrKeyNotFound", err)
	}
	if kws := lib.Keywords(); len(kws) != 3 {
		t.Errorf("Keywords() = %v, want 3 keywords", kws)
	}
}

func TestTransportError(t *testing.T) {
	// reserve a port and free it again so nothing listens on it
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() failed: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()

	_, err = NewRPCCoordinator(clientConfig(addr), tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
	if !errors.Is(err, common.ErrTransport) {
		t.Errorf("NewRPCCoordinator() = %v, want ErrTransport", err)
	}
}

// serveDroppingFirstReply serves the coordinator on a raw framed tcp listener.
// The first connection applies its first request and closes without replying.
func serveDroppingFirstReply(t *testing.T, coord *coordinator.Coordinator, s serializer.IRPCSerializer) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() failed: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })

	adapter := server.NewCoordinatorServerAdapter(coord)
	var conns atomic.Int32

	handle := func(conn net.Conn, drop bool) {
		defer conn.Close()
		header := make([]byte, 20)
		for {
			if _, err := io.ReadFull(conn, header); err != nil {
				return
			}
			payload := make([]byte, binary.BigEndian.Uint32(header[16:20]))
			if _, err := io.ReadFull(conn, payload); err != nil {
				return
			}

			var req common.Message
			if err := s.Deserialize(payload, &req); err != nil {
				return
			}
			resp := adapter.Handle(&req)
			if drop {
				return
			}

			data, err := s.Serialize(*resp)
			if err != nil {
				return
			}
			binary.BigEndian.PutUint32(header[16:20], uint32(len(data)))
			if _, err := conn.Write(append(append([]byte{}, header...), data...)); err != nil {
				return
			}
		}
	}

	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go handle(conn, conns.Add(1) == 1)
		}
	}()

	return l.Addr().String()
}

func TestLostResponseIsNotRetried(t *testing.T) {
	s := serializer.NewBinarySerializer()
	coord := coordinator.New()
	addr := serveDroppingFirstReply(t, coord, s)

	config := clientConfig(addr)
	config.Transport.RetryCount = 3
	c, err := NewRPCCoordinator(config, tcp.NewTCPClientTransport(), s)
	if err != nil {
		t.Fatalf("NewRPCCoordinator() failed: %v", err)
	}
	defer c.Close()

	_, err = c.AcquireLock("L", "w1")
	if !errors.Is(err, common.ErrTransport) || !errors.Is(err, transport.ErrResponseLost) {
		t.Fatalf("AcquireLock() = %v, want ErrTransport and ErrResponseLost", err)
	}

	// the lock was applied exactly once, one release frees it
	if err := coord.ReleaseLock("L", "w1"); err != nil {
		t.Fatalf("ReleaseLock(w1) failed: %v", err)
	}
	if ok, err := coord.AcquireLock("L", "w2"); !ok || err != nil {
		t.Errorf("AcquireLock(w2) = %v, %v, want lock to be free", ok, err)
	}

	// the client reconnects and keeps working
	if err := c.ReleaseLock("L", "w2"); err != nil {
		t.Errorf("ReleaseLock(w2) after reconnect failed: %v", err)
	}
}
