package client

import (
	"github.com/ValentinKolb/dSync/rpc/common"
	"github.com/ValentinKolb/dSync/rpc/serializer"
	"github.com/ValentinKolb/dSync/rpc/transport"
)

// NewRPCLibrary creates a client for a shared library endpoint.
// The returned client implements library.ILibrary.
func NewRPCLibrary(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (*RPCLibrary, error) {
	l := &RPCLibrary{
		rpcClientAdapter{
			shardId:    common.ShardLibrary,
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}

	// Connect the transport
	if err := l.connect(); err != nil {
		return nil, err
	}
	return l, nil
}

// RPCLibrary runs keywords on a remote library instance
type RPCLibrary struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see library.ILibrary)
// --------------------------------------------------------------------------

// Keywords returns nil if the library cannot be reached
func (l *RPCLibrary) Keywords() []string {
	resp, err := l.invoke(common.NewKeywordsRequest())
	if err != nil {
		Logger.Warningf("failed to list keywords: %v", err)
		return nil
	}
	return resp.Tags
}

func (l *RPCLibrary) RunKeyword(name string, args []string) (string, error) {
	resp, err := l.invoke(common.NewRunKeywordRequest(name, args))
	if err != nil {
		return "", err
	}
	return resp.Value, nil
}
