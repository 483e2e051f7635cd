package server

import (
	"fmt"

	"github.com/ValentinKolb/dSync/lib/library"
	"github.com/ValentinKolb/dSync/rpc/common"
)

// NewLibraryServerAdapter creates an adapter that serves the keywords of a shared library
func NewLibraryServerAdapter(lib library.ILibrary) IRPCServerAdapter {
	return &libraryServerAdapterImpl{lib: lib}
}

type libraryServerAdapterImpl struct {
	lib library.ILibrary
}

func (adapter *libraryServerAdapterImpl) Handle(req *common.Message) *common.Message {
	// Check for nil library
	if adapter.lib == nil {
		return common.NewErrorResponse("handler: library is nil")
	}

	switch req.MsgType {
	case common.MsgTLIBRun:
		val, err := adapter.lib.RunKeyword(req.Key, req.Tags)
		return common.NewRunKeywordResponse(val, err)
	case common.MsgTLIBKeywords:
		return common.NewKeywordsResponse(adapter.lib.Keywords(), nil)
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC LibraryAdapter - Unsupported message type: %s", req.MsgType),
		)
	}
}
