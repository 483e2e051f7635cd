package lockmgr

import (
	"github.com/ValentinKolb/dSync/lib/store"
	"github.com/puzpuzpuz/xsync/v3"
)

type lockMgrImpl struct {
	locks *xsync.MapOf[string, LockInfo]
}

// NewLockManager creates an empty lock table
func NewLockManager() ILockManager {
	return &lockMgrImpl{
		locks: xsync.NewMapOf[string, LockInfo](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see lockmgr.ILockManager)
// --------------------------------------------------------------------------

func (lm *lockMgrImpl) AcquireLock(name, caller string) (bool, error) {
	if err := validateCaller(caller); err != nil {
		return false, err
	}

	acquired := false
	lm.locks.Compute(name, func(old LockInfo, loaded bool) (LockInfo, bool) {
		if loaded && old.Owner != caller {
			// held by someone else, keep entry unchanged
			return old, false
		}
		if !loaded {
			old = LockInfo{Owner: caller}
		}
		old.Count++
		acquired = true
		return old, false
	})
	return acquired, nil
}

func (lm *lockMgrImpl) ReleaseLock(name, caller string) error {
	if err := validateCaller(caller); err != nil {
		return err
	}

	var err error
	lm.locks.Compute(name, func(old LockInfo, loaded bool) (LockInfo, bool) {
		if !loaded {
			err = store.Errorf(store.RetCLockNotOwned, "lock %q is not held", name)
			return old, true
		}
		if old.Owner != caller {
			err = store.Errorf(store.RetCLockNotOwned, "lock %q is held by another caller", name)
			return old, false
		}
		old.Count--
		return old, old.Count == 0
	})
	return err
}

func (lm *lockMgrImpl) ReleaseLocks(caller string) error {
	return lm.releaseOwned(caller, func(info LockInfo) LockInfo {
		info.Count--
		return info
	})
}

func (lm *lockMgrImpl) ReleaseAllLocks(caller string) error {
	return lm.releaseOwned(caller, func(info LockInfo) LockInfo {
		info.Count = 0
		return info
	})
}

func (lm *lockMgrImpl) Locks() map[string]LockInfo {
	snapshot := make(map[string]LockInfo, lm.locks.Size())
	lm.locks.Range(func(name string, info LockInfo) bool {
		snapshot[name] = info
		return true
	})
	return snapshot
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// releaseOwned applies release to every lock of the caller and drops entries whose count reaches zero
func (lm *lockMgrImpl) releaseOwned(caller string, release func(LockInfo) LockInfo) error {
	if err := validateCaller(caller); err != nil {
		return err
	}

	// collect first, Compute must not be called from within Range
	var owned []string
	lm.locks.Range(func(name string, info LockInfo) bool {
		if info.Owner == caller {
			owned = append(owned, name)
		}
		return true
	})

	for _, name := range owned {
		lm.locks.Compute(name, func(old LockInfo, loaded bool) (LockInfo, bool) {
			if !loaded {
				return old, true
			}
			if old.Owner != caller {
				return old, false
			}
			old = release(old)
			return old, old.Count == 0
		})
	}
	return nil
}
