// Package lstore implements the in-memory key/value store of the coordinator
// based on the store.IStore interface. Data is stored entirely in memory and is
// not persisted between runs.
//
// Thread Safety:
//
//	All operations are thread-safe. The store is backed by a concurrent map
//	(xsync.MapOf), so every Set and Get is atomic with respect to concurrent callers.
//
// Usage Example:
//
//	s := lstore.NewLocalStore()
//	_ = s.Set("pabot_only_last_executing", "1")
//	v, _ := s.Get("pabot_only_last_executing") // "1"
//	v, _ = s.Get("never-written")              // ""
package lstore
