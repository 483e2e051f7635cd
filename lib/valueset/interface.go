package valueset

// IValueSetPool is the interface of the value set pool.
//
// Every set is reserved by at most one caller and every caller reserves at
// most one set at a time.
type IValueSetPool interface {
	// Reserve assigns the first unreserved set (in configuration order) that
	// carries all given tags to the caller and returns its name and values.
	//
	// Errors:
	//   - store.ErrNotConfigured if the pool is empty
	//   - store.ErrAlreadyReserved if the caller already holds a set
	//   - store.ErrNoMatch if no set carries the tags at all (retrying is pointless)
	//
	// If matching sets exist but all of them are reserved, Reserve returns an
	// empty name and no error. The caller should retry later.
	Reserve(caller string, tags ...string) (name string, data map[string]string, err error)

	// Release drops the reservation of the caller. Releasing without a
	// reservation is a no-op.
	Release(caller string) error

	// Disable drops the reservation of the caller and removes the named set
	// from the pool for the rest of the run. Unknown names fail with
	// store.ErrUnknownValueSet.
	Disable(name, caller string) error

	// Get returns a value of the set reserved by the caller. The key is
	// matched case-insensitively.
	//
	// Errors:
	//   - store.ErrNotReserved if the caller holds no set
	//   - store.ErrKeyNotFound if the set has no such key
	Get(caller, key string) (string, error)

	// Names returns the names of all sets in configuration order
	Names() []string

	// Owner returns the caller that reserved the named set, or "" if it is free
	Owner(name string) string
}
