package lstore

import (
	"github.com/ValentinKolb/dSync/lib/store"
	"github.com/puzpuzpuz/xsync/v3"
)

type storeImpl struct {
	data *xsync.MapOf[string, string]
}

// NewLocalStore creates a new local store instance.
// The store lives in memory only and is not persisted between runs.
func NewLocalStore() store.IStore {
	return &storeImpl{
		data: xsync.NewMapOf[string, string](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Set(key string, value string) error {
	s.data.Store(key, value)
	return nil
}

func (s *storeImpl) Get(key string) (string, error) {
	val, _ := s.data.Load(key)
	return val, nil
}
