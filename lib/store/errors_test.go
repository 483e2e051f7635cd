package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsComparesCodes(t *testing.T) {
	err := NewError(RetCNoMatch, "no value set with tags [x]")

	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("expected errors.Is(err, ErrNoMatch) to be true")
	}
	if errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected errors.Is(err, ErrNotConfigured) to be false")
	}
}

func TestErrorIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("release failed: %w", Errorf(RetCLockNotOwned, "lock %q", "L"))

	if !errors.Is(err, ErrLockNotOwned) {
		t.Errorf("expected wrapped error to match ErrLockNotOwned")
	}

	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected errors.As to find *Error")
	}
	if se.Code != RetCLockNotOwned {
		t.Errorf("Code = %s, want %s", se.Code, RetCLockNotOwned)
	}
}

func TestRetCodeString(t *testing.T) {
	tests := []struct {
		code RetCode
		want string
	}{
		{RetCSuccess, "Success"},
		{RetCNoMatch, "NoMatch"},
		{RetCUnknownLibrary, "UnknownLibrary"},
		{RetCode(999), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("RetCode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}
