package lockmgr

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/dSync/lib/store"
)

func TestAcquireRelease(t *testing.T) {
	lm := NewLockManager()

	ok, err := lm.AcquireLock("L", "w1")
	if err != nil || !ok {
		t.Fatalf("w1 AcquireLock() = %v, %v, want true", ok, err)
	}

	ok, err = lm.AcquireLock("L", "w2")
	if err != nil || ok {
		t.Fatalf("w2 AcquireLock() = %v, %v, want false while w1 holds the lock", ok, err)
	}

	if err := lm.ReleaseLock("L", "w1"); err != nil {
		t.Fatalf("w1 ReleaseLock() failed: %v", err)
	}

	ok, err = lm.AcquireLock("L", "w2")
	if err != nil || !ok {
		t.Fatalf("w2 AcquireLock() = %v, %v, want true after release", ok, err)
	}
}

func TestReentrantCounting(t *testing.T) {
	lm := NewLockManager()

	for i := 0; i < 3; i++ {
		if ok, _ := lm.AcquireLock("L", "w1"); !ok {
			t.Fatalf("acquisition %d failed", i+1)
		}
	}
	if info := lm.Locks()["L"]; info.Count != 3 || info.Owner != "w1" {
		t.Fatalf("Locks()[L] = %+v, want owner w1 count 3", info)
	}

	for i := 0; i < 2; i++ {
		if err := lm.ReleaseLock("L", "w1"); err != nil {
			t.Fatalf("release %d failed: %v", i+1, err)
		}
	}

	// still held once
	if ok, _ := lm.AcquireLock("L", "w2"); ok {
		t.Fatalf("w2 acquired a lock that w1 still holds once")
	}

	if err := lm.ReleaseLock("L", "w1"); err != nil {
		t.Fatalf("final release failed: %v", err)
	}
	if _, exists := lm.Locks()["L"]; exists {
		t.Errorf("lock entry still exists after count reached zero")
	}
}

func TestReleaseErrors(t *testing.T) {
	lm := NewLockManager()
	_, _ = lm.AcquireLock("L", "w1")

	tests := []struct {
		name   string
		lock   string
		caller string
		want   error
	}{
		{"unknown lock", "other", "w1", store.ErrLockNotOwned},
		{"foreign owner", "L", "w2", store.ErrLockNotOwned},
		{"empty caller", "L", "", store.ErrInvalidOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := lm.ReleaseLock(tt.lock, tt.caller)
			if !errors.Is(err, tt.want) {
				t.Errorf("ReleaseLock(%q, %q) = %v, want %v", tt.lock, tt.caller, err, tt.want)
			}
		})
	}

	// failed releases must not change the table
	if info := lm.Locks()["L"]; info.Count != 1 || info.Owner != "w1" {
		t.Errorf("Locks()[L] = %+v, want owner w1 count 1", info)
	}
}

func TestReleaseLocksDecrementsOnce(t *testing.T) {
	lm := NewLockManager()
	_, _ = lm.AcquireLock("A", "w1")
	_, _ = lm.AcquireLock("A", "w1")
	_, _ = lm.AcquireLock("B", "w1")
	_, _ = lm.AcquireLock("C", "w2")

	if err := lm.ReleaseLocks("w1"); err != nil {
		t.Fatalf("ReleaseLocks() failed: %v", err)
	}

	locks := lm.Locks()
	if info, ok := locks["A"]; !ok || info.Count != 1 {
		t.Errorf("A = %+v (exists %v), want count 1", info, ok)
	}
	if _, ok := locks["B"]; ok {
		t.Errorf("B still held after ReleaseLocks")
	}
	if info := locks["C"]; info.Owner != "w2" || info.Count != 1 {
		t.Errorf("C = %+v, lock of another caller was touched", info)
	}
}

func TestReleaseAllLocks(t *testing.T) {
	lm := NewLockManager()
	for i := 0; i < 5; i++ {
		_, _ = lm.AcquireLock("A", "w1")
	}
	_, _ = lm.AcquireLock("B", "w2")

	if err := lm.ReleaseAllLocks("w1"); err != nil {
		t.Fatalf("ReleaseAllLocks() failed: %v", err)
	}

	locks := lm.Locks()
	if _, ok := locks["A"]; ok {
		t.Errorf("A still held after ReleaseAllLocks")
	}
	if _, ok := locks["B"]; !ok {
		t.Errorf("B of another caller was released")
	}
}

func TestConcurrentExclusivity(t *testing.T) {
	lm := NewLockManager()

	const workers = 32
	var winners atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			ok, err := lm.AcquireLock("L", string(rune('a'+id)))
			if err != nil {
				t.Errorf("AcquireLock() failed: %v", err)
			}
			if ok {
				winners.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if winners.Load() != 1 {
		t.Errorf("%d callers acquired the lock, want exactly 1", winners.Load())
	}
}
