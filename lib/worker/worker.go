package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/ValentinKolb/dSync/lib/coordinator"
	"github.com/ValentinKolb/dSync/lib/library"
	"github.com/ValentinKolb/dSync/lib/store"
	"github.com/ValentinKolb/dSync/rpc/common"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/rcrowley/go-metrics"
)

var Logger = logger.GetLogger("worker")

// ErrNoConnection is returned if the coordinator cannot be reached.
// Errors caused by the transport match both ErrNoConnection and common.ErrTransport.
var ErrNoConnection = errors.New("no connection to coordinator")

const (
	defaultPollInterval    = 100 * time.Millisecond
	defaultBarrierInterval = 300 * time.Millisecond
)

// Option configures a Worker
type Option func(*Worker)

// WithConnector sets how the worker connects to a remote coordinator
func WithConnector(connector Connector) Option {
	return func(w *Worker) {
		w.connector = connector
	}
}

// WithLibraryDialer sets how the worker connects to shared libraries of a remote coordinator
func WithLibraryDialer(dialer LibraryDialer) Option {
	return func(w *Worker) {
		w.libraryDialer = dialer
	}
}

// WithRegistry sets the registry used to instantiate libraries outside of a parallel run
func WithRegistry(registry *library.Registry) Option {
	return func(w *Worker) {
		w.registry = registry
	}
}

// WithLocalCoordinator shares an in-process coordinator between several workers
func WithLocalCoordinator(c *coordinator.Coordinator) Option {
	return func(w *Worker) {
		w.local = c
	}
}

// WithPollInterval sets the interval between lock and value set attempts
func WithPollInterval(d time.Duration) Option {
	return func(w *Worker) {
		w.pollInterval = d
	}
}

// WithBarrierInterval sets the interval between reads of a barrier key
func WithBarrierInterval(d time.Duration) Option {
	return func(w *Worker) {
		w.barrierInterval = d
	}
}

// WithMetricsRegistry records the worker metrics in r
func WithMetricsRegistry(r metrics.Registry) Option {
	return func(w *Worker) {
		w.registryMetrics = r
	}
}

// Worker is the coordination facade of one worker
type Worker struct {
	env             Env
	connector       Connector
	libraryDialer   LibraryDialer
	registry        *library.Registry
	local           *coordinator.Coordinator
	pollInterval    time.Duration
	barrierInterval time.Duration
	registryMetrics metrics.Registry
	metrics         *workerMetrics

	mu     sync.Mutex
	remote RemotePrimitives

	// reserved value set, cached on the client
	vsMu     sync.Mutex
	setName  string
	valueSet map[string]string

	libsMu    sync.Mutex
	libraries []io.Closer
}

// New creates the facade for env. Without a coordinator endpoint the worker
// uses an in-process coordinator, otherwise it connects lazily on first use.
func New(env Env, opts ...Option) (*Worker, error) {
	if env.CallerID == "" {
		return nil, store.NewError(store.RetCInvalidOperation, "caller id is required")
	}

	w := &Worker{
		env:             env,
		pollInterval:    defaultPollInterval,
		barrierInterval: defaultBarrierInterval,
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.registryMetrics == nil {
		w.registryMetrics = metrics.NewRegistry()
	}
	w.metrics = newWorkerMetrics(w.registryMetrics)

	if w.registry == nil {
		w.registry = library.NewRegistry()
	}
	if !env.Distributed() && w.local == nil {
		w.local = coordinator.New()
	}

	Logger.Debugf("worker %s created (distributed=%v)", env.CallerID, env.Distributed())
	return w, nil
}

// CallerID returns the id all calls are bound to
func (w *Worker) CallerID() string {
	return w.env.CallerID
}

// Env returns the environment of the worker
func (w *Worker) Env() Env {
	return w.env
}

// IsDistributed reports whether the worker talks to a remote coordinator
func (w *Worker) IsDistributed() bool {
	return w.env.Distributed()
}

// Metrics returns the metrics registry of the worker
func (w *Worker) Metrics() metrics.Registry {
	return w.registryMetrics
}

// --------------------------------------------------------------------------
// Key / value
// --------------------------------------------------------------------------

// SetParallelValueForKey stores a value visible to all workers
func (w *Worker) SetParallelValueForKey(key, value string) error {
	return w.call(func(p coordinator.IPrimitives) error {
		return p.SetParallelValueForKey(key, value)
	})
}

// GetParallelValueForKey returns the value of key or "" if it was never set
func (w *Worker) GetParallelValueForKey(key string) (value string, err error) {
	err = w.call(func(p coordinator.IPrimitives) error {
		value, err = p.GetParallelValueForKey(key)
		return err
	})
	return value, err
}

// WaitForValue polls key until ready accepts its value
func (w *Worker) WaitForValue(ctx context.Context, key string, ready func(value string) bool) error {
	for {
		value, err := w.GetParallelValueForKey(key)
		if err != nil {
			return err
		}
		if ready(value) {
			return nil
		}
		w.metrics.barrierPolls.Inc(1)
		Logger.Debugf("waiting for %s, current value %q", key, value)
		if err := sleep(ctx, w.barrierInterval); err != nil {
			return err
		}
	}
}

// --------------------------------------------------------------------------
// Locks
// --------------------------------------------------------------------------

// AcquireLock waits until the lock is held by this worker.
// Locks are re-entrant, every acquire must be matched by a release.
func (w *Worker) AcquireLock(ctx context.Context, name string) error {
	for {
		var ok bool
		err := w.call(func(p coordinator.IPrimitives) (err error) {
			ok, err = p.AcquireLock(name, w.env.CallerID)
			return err
		})
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		w.metrics.lockPolls.Inc(1)
		Logger.Debugf("waiting for lock %q to be released", name)
		if err := sleep(ctx, w.pollInterval); err != nil {
			return err
		}
	}
}

// ReleaseLock releases one level of the lock
func (w *Worker) ReleaseLock(name string) error {
	return w.call(func(p coordinator.IPrimitives) error {
		return p.ReleaseLock(name, w.env.CallerID)
	})
}

// ReleaseLocks releases one level of every lock held by this worker
func (w *Worker) ReleaseLocks() error {
	return w.call(func(p coordinator.IPrimitives) error {
		return p.ReleaseLocks(w.env.CallerID)
	})
}

// ReleaseAllLocks drops every lock held by this worker regardless of its level
func (w *Worker) ReleaseAllLocks() error {
	return w.call(func(p coordinator.IPrimitives) error {
		return p.ReleaseAllLocks(w.env.CallerID)
	})
}

// --------------------------------------------------------------------------
// Value sets
// --------------------------------------------------------------------------

// AcquireValueSet waits until a value set carrying all tags is reserved for
// this worker and returns its name. It fails immediately if no set carries the tags.
func (w *Worker) AcquireValueSet(ctx context.Context, tags ...string) (string, error) {
	for {
		var (
			name string
			data map[string]string
		)
		err := w.call(func(p coordinator.IPrimitives) (err error) {
			name, data, err = p.AcquireValueSet(w.env.CallerID, tags...)
			return err
		})
		if err != nil {
			return "", err
		}
		if name != "" {
			w.vsMu.Lock()
			w.setName, w.valueSet = name, data
			w.vsMu.Unlock()
			Logger.Infof("value set %q acquired by %s", name, w.env.CallerID)
			return name, nil
		}
		w.metrics.valueSetPolls.Inc(1)
		Logger.Debugf("waiting for a value set with tags %v", tags)
		if err := sleep(ctx, w.pollInterval); err != nil {
			return "", err
		}
	}
}

// ValueSetName returns the name of the reserved value set known to this worker
func (w *Worker) ValueSetName() string {
	w.vsMu.Lock()
	defer w.vsMu.Unlock()
	return w.setName
}

// ValueSet returns a copy of the values of the reserved set, nil if the set
// was not reserved by this process
func (w *Worker) ValueSet() map[string]string {
	w.vsMu.Lock()
	defer w.vsMu.Unlock()
	if w.valueSet == nil {
		return nil
	}
	return maps.Clone(w.valueSet)
}

// GetValueFromSet returns a value of the reserved set, keys are case-insensitive.
// If the set was reserved by an earlier process with the same caller id, the
// value is read from the coordinator.
func (w *Worker) GetValueFromSet(key string) (string, error) {
	key = strings.ToLower(key)

	w.vsMu.Lock()
	cached := w.valueSet
	w.vsMu.Unlock()

	if cached != nil {
		value, ok := cached[key]
		if !ok {
			return "", store.Errorf(store.RetCKeyNotFound, "no value for key %q", key)
		}
		return value, nil
	}

	var value string
	err := w.call(func(p coordinator.IPrimitives) (err error) {
		value, err = p.GetValueFromSet(key, w.env.CallerID)
		return err
	})
	return value, err
}

// ReleaseValueSet releases the value set of this worker so others can use it
// The cached set is kept if the coordinator could not be reached, it still
// holds the reservation.
func (w *Worker) ReleaseValueSet() error {
	err := w.call(func(p coordinator.IPrimitives) error {
		return p.ReleaseValueSet(w.env.CallerID)
	})
	w.forgetValueSet(err)
	return err
}

// DisableValueSet removes the reserved value set from the pool for the rest of the run
func (w *Worker) DisableValueSet() error {
	name := w.ValueSetName()
	if name == "" {
		return store.NewError(store.RetCNotReserved, "no value set reserved by this worker")
	}
	return w.DisableNamedValueSet(name)
}

// DisableNamedValueSet removes the named value set from the pool
func (w *Worker) DisableNamedValueSet(name string) error {
	err := w.call(func(p coordinator.IPrimitives) error {
		return p.DisableValueSet(name, w.env.CallerID)
	})
	w.forgetValueSet(err)
	return err
}

// forgetValueSet drops the cached set once the coordinator no longer holds a
// reservation for this worker
func (w *Worker) forgetValueSet(err error) {
	if err != nil && !errors.Is(err, store.ErrNotReserved) {
		return
	}
	w.vsMu.Lock()
	defer w.vsMu.Unlock()
	w.setName, w.valueSet = "", nil
}

// --------------------------------------------------------------------------
// Shared libraries
// --------------------------------------------------------------------------

// ImportSharedLibrary returns the named library. Outside of a parallel run
// (no queue index) a private instance is created from the local registry.
// In a parallel run the coordinator serves one instance shared by all workers.
func (w *Worker) ImportSharedLibrary(name string) (library.ILibrary, error) {
	if w.env.QueueIndex == nil {
		Logger.Debugf("not part of a parallel run, importing library %q for this process", name)
		return w.registry.New(name)
	}

	if !w.IsDistributed() {
		Logger.Errorf("No connection - is the coordinator running?")
		return nil, ErrNoConnection
	}

	var port uint64
	err := w.call(func(p coordinator.IPrimitives) (err error) {
		port, err = p.ImportSharedLibrary(name)
		return err
	})
	if err != nil {
		return nil, err
	}

	if w.libraryDialer == nil {
		return nil, fmt.Errorf("%w: no library dialer configured", ErrNoConnection)
	}

	endpoint := libraryEndpoint(w.env.CoordinatorEndpoint, port)
	lib, err := w.libraryDialer(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoConnection, err)
	}

	w.libsMu.Lock()
	w.libraries = append(w.libraries, lib)
	w.libsMu.Unlock()

	Logger.Debugf("library %q imported from %s", name, endpoint)
	return lib, nil
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Close releases the locks and the value set of this worker and closes all
// connections. Connectivity errors are ignored, the coordinator may already be gone.
func (w *Worker) Close() error {
	var errs []error
	for _, release := range []func() error{w.ReleaseLocks, w.ReleaseValueSet} {
		if err := release(); err != nil && !errors.Is(err, ErrNoConnection) {
			errs = append(errs, err)
		}
	}

	w.Disconnect()
	return errors.Join(errs...)
}

// Disconnect closes all connections but keeps locks and value sets on the
// coordinator, so a later process with the same caller id can release them.
func (w *Worker) Disconnect() {
	w.libsMu.Lock()
	for _, lib := range w.libraries {
		_ = lib.Close()
	}
	w.libraries = nil
	w.libsMu.Unlock()

	w.invalidate()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// primitives returns the coordinator of the worker, connecting if needed
func (w *Worker) primitives() (coordinator.IPrimitives, error) {
	if w.local != nil {
		return w.local, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.remote != nil {
		return w.remote, nil
	}
	if w.connector == nil {
		return nil, fmt.Errorf("%w: no connector configured", ErrNoConnection)
	}

	remote, err := w.connector(w.env.CoordinatorEndpoint)
	if err != nil {
		Logger.Errorf("No connection - is the coordinator running at %s?", w.env.CoordinatorEndpoint)
		return nil, fmt.Errorf("%w: %w", ErrNoConnection, err)
	}
	w.remote = remote
	return remote, nil
}

// invalidate drops the cached connection
func (w *Worker) invalidate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.remote != nil {
		_ = w.remote.Close()
		w.remote = nil
	}
}

// call runs fn against the coordinator and maps transport failures to ErrNoConnection
func (w *Worker) call(fn func(p coordinator.IPrimitives) error) error {
	p, err := w.primitives()
	if err != nil {
		return err
	}

	start := time.Now()
	err = fn(p)
	w.metrics.calls.UpdateSince(start)

	if errors.Is(err, common.ErrTransport) {
		w.invalidate()
		Logger.Errorf("No connection - is the coordinator running at %s?", w.env.CoordinatorEndpoint)
		return fmt.Errorf("%w: %w", ErrNoConnection, err)
	}
	return err
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
