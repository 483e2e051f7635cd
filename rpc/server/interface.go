package server

import (
	"github.com/ValentinKolb/dSync/rpc/common"
)

// IRPCServerAdapter is the interface for all RPC server adapters
// It is responsible for translating requests into calls on its target and
// the results back into responses
type IRPCServerAdapter interface {
	// Handle handles a request and returns a response
	// If an error occurs, it should be set in the response
	Handle(req *common.Message) (resp *common.Message)
}
