package coordinator

import (
	"github.com/ValentinKolb/dSync/lib/lockmgr"
	"github.com/ValentinKolb/dSync/lib/store"
	"github.com/ValentinKolb/dSync/lib/store/lstore"
	"github.com/ValentinKolb/dSync/lib/valueset"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("coordinator")

// Coordinator composes the lock table, the key/value store, the value set
// pool and an optional shared library importer. One Coordinator holds the
// whole coordination state of a run.
type Coordinator struct {
	store    store.IStore
	locks    lockmgr.ILockManager
	pool     valueset.IValueSetPool
	importer LibraryImporter
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithValueSets fills the value set pool with the given sets
func WithValueSets(sets []valueset.ValueSet) Option {
	return func(c *Coordinator) {
		c.pool = valueset.NewPool(sets)
	}
}

// WithStore replaces the in-memory key/value store
func WithStore(s store.IStore) Option {
	return func(c *Coordinator) {
		c.store = s
	}
}

// WithLibraryImporter enables ImportSharedLibrary
func WithLibraryImporter(importer LibraryImporter) Option {
	return func(c *Coordinator) {
		c.importer = importer
	}
}

// New creates a coordinator with an empty lock table, an empty key/value
// store and no value sets unless configured otherwise.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		store: lstore.NewLocalStore(),
		locks: lockmgr.NewLockManager(),
		pool:  valueset.NewPool(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close stops all shared libraries started by the coordinator
func (c *Coordinator) Close() error {
	if c.importer == nil {
		return nil
	}
	return c.importer.Shutdown()
}

// Stats is a point in time view of the coordination state
type Stats struct {
	HeldLocks    int
	ValueSets    int
	ReservedSets int
}

// Stats returns the current coordination state
func (c *Coordinator) Stats() Stats {
	stats := Stats{HeldLocks: len(c.locks.Locks())}
	for _, name := range c.pool.Names() {
		stats.ValueSets++
		if c.pool.Owner(name) != "" {
			stats.ReservedSets++
		}
	}
	return stats
}

// --------------------------------------------------------------------------
// Interface Methods (docu see coordinator.IPrimitives)
// --------------------------------------------------------------------------

func (c *Coordinator) SetParallelValueForKey(key, value string) error {
	return c.store.Set(key, value)
}

func (c *Coordinator) GetParallelValueForKey(key string) (string, error) {
	return c.store.Get(key)
}

func (c *Coordinator) AcquireLock(name, caller string) (bool, error) {
	ok, err := c.locks.AcquireLock(name, caller)
	if ok {
		Logger.Debugf("lock %q acquired by %s", name, caller)
	}
	return ok, err
}

func (c *Coordinator) ReleaseLock(name, caller string) error {
	if err := c.locks.ReleaseLock(name, caller); err != nil {
		return err
	}
	Logger.Debugf("lock %q released by %s", name, caller)
	return nil
}

func (c *Coordinator) ReleaseLocks(caller string) error {
	return c.locks.ReleaseLocks(caller)
}

func (c *Coordinator) ReleaseAllLocks(caller string) error {
	return c.locks.ReleaseAllLocks(caller)
}

func (c *Coordinator) AcquireValueSet(caller string, tags ...string) (string, map[string]string, error) {
	return c.pool.Reserve(caller, tags...)
}

func (c *Coordinator) ReleaseValueSet(caller string) error {
	return c.pool.Release(caller)
}

func (c *Coordinator) DisableValueSet(name, caller string) error {
	return c.pool.Disable(name, caller)
}

func (c *Coordinator) GetValueFromSet(key, caller string) (string, error) {
	return c.pool.Get(caller, key)
}

func (c *Coordinator) ImportSharedLibrary(name string) (uint64, error) {
	if c.importer == nil {
		return 0, store.NewError(store.RetCLibraryNotEnabled, "this coordinator does not serve shared libraries")
	}
	return c.importer.Import(name)
}
