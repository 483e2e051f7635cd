package library

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/ValentinKolb/dSync/lib/store"
)

func echoFactory() (ILibrary, error) {
	return NewFuncLibrary(map[string]KeywordFunc{
		"Echo": func(args ...string) (string, error) {
			return fmt.Sprint(len(args)), nil
		},
	}), nil
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register("Echo", echoFactory); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if err := reg.Register("Echo", echoFactory); err == nil {
		t.Errorf("expected error for duplicate registration")
	}
	if err := reg.Register("", echoFactory); err == nil {
		t.Errorf("expected error for empty name")
	}

	lib, err := reg.New("Echo")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if got, _ := lib.RunKeyword("echo", []string{"a", "b"}); got != "2" {
		t.Errorf("RunKeyword() = %q, want 2", got)
	}

	if _, err := reg.New("Missing"); !errors.Is(err, store.ErrUnknownLibrary) {
		t.Errorf("New(Missing) = %v, want ErrUnknownLibrary", err)
	}

	if names := reg.Names(); !reflect.DeepEqual(names, []string{"Echo"}) {
		t.Errorf("Names() = %v", names)
	}
}

func TestRegistryFactoryError(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register("Broken", func() (ILibrary, error) { return nil, errors.New("boom") })

	if _, err := reg.New("Broken"); err == nil {
		t.Errorf("expected factory error to be returned")
	}
}

func TestFuncLibraryKeywordMatching(t *testing.T) {
	lib := NewFuncLibrary(map[string]KeywordFunc{
		"Get Count": func(...string) (string, error) { return "1", nil },
	})

	for _, name := range []string{"Get Count", "get_count", "GETCOUNT", "get count"} {
		if got, err := lib.RunKeyword(name, nil); err != nil || got != "1" {
			t.Errorf("RunKeyword(%q) = %q, %v", name, got, err)
		}
	}

	if _, err := lib.RunKeyword("Unknown", nil); !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("RunKeyword(Unknown) = %v, want ErrKeyNotFound", err)
	}

	if kws := lib.Keywords(); !reflect.DeepEqual(kws, []string{"Get Count"}) {
		t.Errorf("Keywords() = %v", kws)
	}
}
