package coordinator

// IPrimitives is the full set of coordination primitives.
// It is implemented by the in-process Coordinator and by the rpc client, so
// workers use the same API whether the coordinator runs locally or remotely.
type IPrimitives interface {
	// SetParallelValueForKey stores a value in the shared key/value store
	SetParallelValueForKey(key, value string) error
	// GetParallelValueForKey returns the stored value or "" if the key was never set
	GetParallelValueForKey(key string) (string, error)

	// AcquireLock tries to take the named lock without blocking
	AcquireLock(name, caller string) (bool, error)
	// ReleaseLock releases one level of the named lock
	ReleaseLock(name, caller string) error
	// ReleaseLocks releases one level of every lock held by caller
	ReleaseLocks(caller string) error
	// ReleaseAllLocks releases every level of every lock held by caller
	ReleaseAllLocks(caller string) error

	// AcquireValueSet reserves a value set carrying all tags, an empty name without error means "try later"
	AcquireValueSet(caller string, tags ...string) (name string, data map[string]string, err error)
	// ReleaseValueSet drops the reservation of caller
	ReleaseValueSet(caller string) error
	// DisableValueSet removes the named set from the pool
	DisableValueSet(name, caller string) error
	// GetValueFromSet returns a value of the set reserved by caller
	GetValueFromSet(key, caller string) (string, error)

	// ImportSharedLibrary makes sure the named library runs on the coordinator and returns its port
	ImportSharedLibrary(name string) (port uint64, err error)
}

// LibraryImporter starts shared libraries on behalf of the coordinator
type LibraryImporter interface {
	// Import returns the port of the named library, starting it on first use
	Import(name string) (port uint64, err error)
	// Shutdown stops all started libraries and waits for them to terminate
	Shutdown() error
}
