// Package lockmgr implements the lock table of the coordinator: named,
// re-entrant, owner-scoped mutual exclusion locks.
//
// A lock is identified by an arbitrary name and held by exactly one caller
// (worker) at a time. The holder may acquire the lock again, every acquisition
// increments a counter and has to be matched by a release. Locks are never
// waited on inside the lock table: AcquireLock returns false immediately when
// another caller holds the lock and the caller is expected to retry.
//
// Core Functionality:
//   - Non blocking, re-entrant acquisition
//   - Owner verified release of a single level
//   - Bulk release of one level (ReleaseLocks) or of every level (ReleaseAllLocks)
//     of all locks held by a caller, used when a worker shuts down
//
// Implementation Approach:
//
//	Locks live in a concurrent map (xsync.MapOf). Every state transition of a
//	single lock runs inside MapOf.Compute, which makes the read-check-write
//	sequence atomic per lock without a global mutex. An entry exists if and
//	only if its count is greater than zero.
//
// Usage Example:
//
//	locks := lockmgr.NewLockManager()
//
//	ok, _ := locks.AcquireLock("db", "worker-1") // true
//	ok, _ = locks.AcquireLock("db", "worker-2")  // false, held by worker-1
//
//	_ = locks.ReleaseLock("db", "worker-1")
//	ok, _ = locks.AcquireLock("db", "worker-2") // true
package lockmgr
