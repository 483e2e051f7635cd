package server

import (
	"fmt"
	"net"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ValentinKolb/dSync/rpc/common"
	"github.com/ValentinKolb/dSync/rpc/serializer"
	"github.com/ValentinKolb/dSync/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("rpc")

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		tcp.NewTCPServerTransport(),
//		serializer.NewBinarySerializer(),
//	)
//	s.RegisterShard(common.ShardCoordinator, server.NewCoordinatorServerAdapter(coordinator.New()))
//
//	if err := s.ListenAndServe(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	Logger.Debugf("Created RPC Server")
	Logger.Debugf(config.String())

	return &RPCServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		shards:     xsync.NewMapOf[uint64, IRPCServerAdapter](),
		metrics:    newServerMetrics(),
	}
}

// RPCServer routes requests from a transport to the adapter of the addressed shard
type RPCServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	shards     *xsync.MapOf[uint64, IRPCServerAdapter]
	metrics    *serverMetrics
}

// RegisterShard makes adapter reachable under shardId
func (s *RPCServer) RegisterShard(shardId uint64, adapter IRPCServerAdapter) {
	s.shards.Store(shardId, adapter)
}

// Listen binds the configured endpoint and returns the bound address
func (s *RPCServer) Listen() (net.Addr, error) {
	s.transport.RegisterHandler(s.handle)
	addr, err := s.transport.Listen(s.config)
	if err != nil {
		return nil, err
	}
	Logger.Debugf("RPC server bound to %s", addr)
	return addr, nil
}

// Serve serves requests until Stop is called. Listen must be called first.
func (s *RPCServer) Serve() error {
	return s.transport.Serve()
}

// ListenAndServe combines Listen and Serve
func (s *RPCServer) ListenAndServe() error {
	if _, err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Stop closes the transport, Serve returns once all connections are closed
func (s *RPCServer) Stop() error {
	return s.transport.Close()
}

// Metrics returns the metric set of the server (request counters and durations)
func (s *RPCServer) Metrics() *metrics.Set {
	return s.metrics.set
}

// handle is the transport.ServerHandleFunc of the server
func (s *RPCServer) handle(shardId uint64, req []byte) []byte {
	var msg common.Message
	var respMsg *common.Message

	start := time.Now()

	// Get appropriate shard
	adapter, ok := s.shards.Load(shardId)

	if !ok {
		// Case shard does not exist -> error
		respMsg = common.NewErrorResponse(fmt.Sprintf("shard %d not found", shardId))
	} else if err := s.serializer.Deserialize(req, &msg); err != nil {
		respMsg = common.NewErrorResponse(fmt.Sprintf("failed to deserialize request: %s", err))
	} else {
		// Let the adapter handle the request
		respMsg = adapter.Handle(&msg)
	}

	s.metrics.observe(msg.MsgType, start, respMsg.Err != "")

	// Return result
	val, err := s.serializer.Serialize(*respMsg)
	if err != nil {
		Logger.Errorf("failed to serialize response: %v", err)
		val, _ = s.serializer.Serialize(*common.NewErrorResponse(fmt.Sprintf("failed to serialize response: %s", err)))
	}
	return val
}
