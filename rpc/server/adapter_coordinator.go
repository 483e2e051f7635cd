package server

import (
	"fmt"

	"github.com/ValentinKolb/dSync/lib/coordinator"
	"github.com/ValentinKolb/dSync/rpc/common"
)

// NewCoordinatorServerAdapter creates an adapter that serves the coordination primitives
func NewCoordinatorServerAdapter(primitives coordinator.IPrimitives) IRPCServerAdapter {
	return &coordinatorServerAdapterImpl{primitives: primitives}
}

type coordinatorServerAdapterImpl struct {
	primitives coordinator.IPrimitives
}

func (adapter *coordinatorServerAdapterImpl) Handle(req *common.Message) *common.Message {
	// Check for nil target
	if adapter.primitives == nil {
		return common.NewErrorResponse("handler: coordinator is nil")
	}

	p := adapter.primitives

	// Handle different message types
	switch req.MsgType {
	case common.MsgTKVSet:
		err := p.SetParallelValueForKey(req.Key, req.Value)
		return common.NewSetResponse(err)
	case common.MsgTKVGet:
		val, err := p.GetParallelValueForKey(req.Key)
		return common.NewGetResponse(val, err)
	case common.MsgTLCKAcquire:
		ok, err := p.AcquireLock(req.Key, req.Caller)
		return common.NewAcquireLockResponse(ok, err)
	case common.MsgTLCKRelease:
		err := p.ReleaseLock(req.Key, req.Caller)
		return common.NewReleaseLockResponse(err)
	case common.MsgTLCKReleaseAll:
		err := p.ReleaseLocks(req.Caller)
		return common.NewReleaseLocksResponse(err)
	case common.MsgTLCKReleaseAllLevels:
		err := p.ReleaseAllLocks(req.Caller)
		return common.NewReleaseAllLocksResponse(err)
	case common.MsgTVSAcquire:
		name, data, err := p.AcquireValueSet(req.Caller, req.Tags...)
		return common.NewAcquireValueSetResponse(name, data, err)
	case common.MsgTVSRelease:
		err := p.ReleaseValueSet(req.Caller)
		return common.NewReleaseValueSetResponse(err)
	case common.MsgTVSDisable:
		err := p.DisableValueSet(req.Key, req.Caller)
		return common.NewDisableValueSetResponse(err)
	case common.MsgTVSGet:
		val, err := p.GetValueFromSet(req.Key, req.Caller)
		return common.NewGetValueFromSetResponse(val, err)
	case common.MsgTLIBImport:
		port, err := p.ImportSharedLibrary(req.Key)
		return common.NewImportLibraryResponse(port, err)
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC CoordinatorAdapter - Unsupported message type: %s", req.MsgType),
		)
	}
}
