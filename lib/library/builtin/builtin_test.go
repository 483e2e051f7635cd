package builtin

import (
	"strconv"
	"sync"
	"testing"
)

func TestCounterIsShared(t *testing.T) {
	lib, err := NewCounter()
	if err != nil {
		t.Fatalf("NewCounter() failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := lib.RunKeyword("Increment", nil); err != nil {
				t.Errorf("Increment failed: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := lib.RunKeyword("Get Count", nil)
	if got != "20" {
		t.Errorf("Get Count = %q, want 20", got)
	}

	got, _ = lib.RunKeyword("increment", []string{"5"})
	if got != strconv.Itoa(25) {
		t.Errorf("Increment 5 = %q, want 25", got)
	}

	if _, err := lib.RunKeyword("Increment", []string{"x"}); err == nil {
		t.Errorf("expected error for invalid increment")
	}

	if got, _ := lib.RunKeyword("Reset Count", nil); got != "0" {
		t.Errorf("Reset Count = %q", got)
	}
}

func TestEcho(t *testing.T) {
	lib, _ := NewEcho()
	if got, _ := lib.RunKeyword("Echo", []string{"hello", "world"}); got != "hello world" {
		t.Errorf("Echo = %q", got)
	}
}

func TestRegister(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"Counter", "Echo"} {
		if _, err := reg.New(name); err != nil {
			t.Errorf("New(%q) failed: %v", name, err)
		}
	}
}
