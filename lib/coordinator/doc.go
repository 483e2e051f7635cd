// Package coordinator composes the coordination primitives of a run.
//
// The Coordinator owns the lock table (lib/lockmgr), the shared key/value
// store (lib/store/lstore) and the value set pool (lib/valueset). It can be
// used in-process, by a worker that runs alone, or be served to many workers
// by the rpc server (rpc/server). There is no global state: every Coordinator
// is independent, which makes it cheap to create one per test.
//
// IPrimitives is the caller facing API shared by the Coordinator and the rpc
// client. Every operation is non blocking, waiting for a lock or a value set
// is done by the caller through polling.
//
// Shared libraries are optional. A Coordinator created with
// WithLibraryImporter delegates ImportSharedLibrary to the importer (normally
// the broker of rpc/server) and shuts it down in Close.
package coordinator
