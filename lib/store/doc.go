// Package store provides the shared key/value store used by all workers of a
// parallel run, together with the error taxonomy of the coordination primitives.
//
// The package focuses on:
//   - A unified interface (IStore) for the shared key/value store
//   - A structured error type (Error) with return codes (RetCode)
//
// Key Components:
//
//   - IStore Interface: Set is an unconditional upsert, Get returns the stored
//     value or the empty string for keys that were never written. Absence is a
//     valid, observable state and never an error.
//
//   - Error System: A structured error reporting mechanism using typed error codes
//     and descriptive messages. The code is transported over RPC, so a client can
//     use errors.Is against the sentinel errors (ErrNoMatch, ErrLockNotOwned, ...)
//     regardless of whether the primitive ran locally or on the coordinator.
//
// Implementations:
//
//	The in-memory implementation lives in the "github.com/ValentinKolb/dSync/lib/store/lstore"
//	package. The store is used both for user data and for the bookkeeping of the
//	synchronization recipes (pass/fail markers, watermark counters).
package store
