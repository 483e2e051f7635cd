package store

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IStore is the interface of the shared key/value store.
// Keys and values are plain strings. Entries are created on the first write,
// overwritten by later writes and never deleted implicitly.
type IStore interface {
	// Set inserts or updates a key–value pair.
	Set(key string, value string) (err error)
	// Get returns the value for a key.
	// A key that was never written yields the empty string and no error,
	// so polling loops always have a well-defined initial value.
	Get(key string) (value string, err error)
}
