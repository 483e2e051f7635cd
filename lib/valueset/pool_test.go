package valueset

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ValentinKolb/dSync/lib/store"
)

func testSets() []ValueSet {
	return []ValueSet{
		{Name: "A", Tags: []string{"foo", "bar"}, Data: map[string]string{"Key": "val-a"}},
		{Name: "B", Tags: []string{"foo"}, Data: map[string]string{"key": "val-b"}},
		{Name: "C", Tags: []string{"baz"}, Data: map[string]string{"key": "val-c"}},
	}
}

func TestReserveInConfigurationOrder(t *testing.T) {
	pool := NewPool(testSets())

	name, data, err := pool.Reserve("w1", "foo")
	if err != nil || name != "A" {
		t.Fatalf("Reserve(w1, foo) = %q, %v, want A", name, err)
	}
	want := map[string]string{"key": "val-a", "tags": "foo,bar"}
	if !reflect.DeepEqual(data, want) {
		t.Errorf("data = %v, want %v", data, want)
	}

	name, _, err = pool.Reserve("w2", "foo")
	if err != nil || name != "B" {
		t.Fatalf("Reserve(w2, foo) = %q, %v, want B", name, err)
	}

	// both foo sets taken -> try later
	name, data, err = pool.Reserve("w3", "foo")
	if err != nil || name != "" || data != nil {
		t.Fatalf("Reserve(w3, foo) = %q, %v, %v, want empty result", name, data, err)
	}
}

func TestReserveErrors(t *testing.T) {
	tests := []struct {
		name string
		pool IValueSetPool
		prep func(IValueSetPool)
		tags []string
		want error
	}{
		{"empty pool", NewPool(nil), nil, nil, store.ErrNotConfigured},
		{"no matching tags", NewPool(testSets()), nil, []string{"nope"}, store.ErrNoMatch},
		{"tags are case-sensitive", NewPool(testSets()), nil, []string{"FOO"}, store.ErrNoMatch},
		{"already reserved", NewPool(testSets()), func(p IValueSetPool) { _, _, _ = p.Reserve("w1") }, nil, store.ErrAlreadyReserved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prep != nil {
				tt.prep(tt.pool)
			}
			_, _, err := tt.pool.Reserve("w1", tt.tags...)
			if !errors.Is(err, tt.want) {
				t.Errorf("Reserve() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReserveWithoutTagsMatchesAny(t *testing.T) {
	pool := NewPool(testSets())

	for i, want := range []string{"A", "B", "C"} {
		name, _, err := pool.Reserve(string(rune('a'+i)))
		if err != nil || name != want {
			t.Errorf("Reserve() = %q, %v, want %q", name, err, want)
		}
	}
}

func TestReleaseMakesSetAvailable(t *testing.T) {
	pool := NewPool(testSets())

	name, _, _ := pool.Reserve("w1", "baz")
	if name != "C" {
		t.Fatalf("Reserve() = %q, want C", name)
	}
	if name, _, _ := pool.Reserve("w2", "baz"); name != "" {
		t.Fatalf("Reserve() = %q while C is taken, want empty", name)
	}

	if err := pool.Release("w1"); err != nil {
		t.Fatalf("Release() failed: %v", err)
	}
	// idempotent
	if err := pool.Release("w1"); err != nil {
		t.Fatalf("second Release() failed: %v", err)
	}

	if name, _, _ := pool.Reserve("w2", "baz"); name != "C" {
		t.Errorf("Reserve() after release = %q, want C", name)
	}
	if owner := pool.Owner("C"); owner != "w2" {
		t.Errorf("Owner(C) = %q, want w2", owner)
	}
}

func TestDisable(t *testing.T) {
	pool := NewPool(testSets())
	_, _, _ = pool.Reserve("w1", "baz")

	if err := pool.Disable("C", "w1"); err != nil {
		t.Fatalf("Disable() failed: %v", err)
	}

	if names := pool.Names(); !reflect.DeepEqual(names, []string{"A", "B"}) {
		t.Errorf("Names() = %v, want [A B]", names)
	}

	// the only baz set is gone for good
	if _, _, err := pool.Reserve("w1", "baz"); !errors.Is(err, store.ErrNoMatch) {
		t.Errorf("Reserve(baz) after disable = %v, want ErrNoMatch", err)
	}

	if err := pool.Disable("C", "w1"); !errors.Is(err, store.ErrUnknownValueSet) {
		t.Errorf("Disable() of removed set = %v, want ErrUnknownValueSet", err)
	}
}

func TestGet(t *testing.T) {
	pool := NewPool(testSets())

	if _, err := pool.Get("w1", "key"); !errors.Is(err, store.ErrNotReserved) {
		t.Fatalf("Get() without reservation = %v, want ErrNotReserved", err)
	}

	_, _, _ = pool.Reserve("w1", "bar")

	tests := []struct {
		key     string
		want    string
		wantErr error
	}{
		{"key", "val-a", nil},
		{"KEY", "val-a", nil},
		{"tags", "foo,bar", nil},
		{"missing", "", store.ErrKeyNotFound},
	}
	for _, tt := range tests {
		got, err := pool.Get("w1", tt.key)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Get(%q) error = %v, want %v", tt.key, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Get(%q) = %q, %v, want %q", tt.key, got, err, tt.want)
		}
	}
}

func TestTwoCallerScenario(t *testing.T) {
	pool := NewPool([]ValueSet{
		{Name: "A", Tags: []string{"foo"}},
		{Name: "B", Tags: []string{"foo"}},
	})

	n1, _, _ := pool.Reserve("c1", "foo")
	n2, _, _ := pool.Reserve("c2", "foo")
	n3, _, err := pool.Reserve("c3", "foo")
	if n1 != "A" || n2 != "B" || n3 != "" || err != nil {
		t.Fatalf("got %q %q %q %v, want A B \"\" nil", n1, n2, n3, err)
	}

	_ = pool.Release("c1")
	if n3, _, _ = pool.Reserve("c3", "foo"); n3 != "A" {
		t.Errorf("c3 got %q after c1 released, want A", n3)
	}
}
