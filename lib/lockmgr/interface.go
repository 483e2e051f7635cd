package lockmgr

// LockInfo describes a held lock
type LockInfo struct {
	// Owner is the caller id of the lock holder
	Owner string
	// Count is the re-entrancy depth, always > 0 for a held lock
	Count uint64
}

// ILockManager defines the interface of the lock table.
type ILockManager interface {
	// AcquireLock tries to take the named lock for the caller.
	// It never blocks: if another caller holds the lock it returns false.
	// A caller that already holds the lock acquires it again (re-entrant), each
	// acquisition has to be released separately.
	AcquireLock(name, caller string) (ok bool, err error)

	// ReleaseLock releases one level of the named lock.
	// Releasing a lock that does not exist or that is held by another caller
	// fails with store.ErrLockNotOwned. The lock is removed when its count reaches zero.
	ReleaseLock(name, caller string) (err error)

	// ReleaseLocks releases exactly one level of every lock held by the caller.
	// Locks acquired more than once by the caller stay held with a decreased count.
	ReleaseLocks(caller string) (err error)

	// ReleaseAllLocks removes every lock held by the caller regardless of its count.
	ReleaseAllLocks(caller string) (err error)

	// Locks returns a snapshot of all held locks
	Locks() map[string]LockInfo
}
