package recipes

import (
	"testing"
)

func TestTracker(t *testing.T) {
	var tr Tracker

	steps := []struct {
		do   func()
		want string
	}{
		{func() {}, ""},
		{func() { tr.StartSuite("Root") }, "Root"},
		{func() { tr.StartSuite("Root.Child") }, "Root.Child"},
		{func() { tr.StartKeyword() }, "Root.Child.0"},
		{func() { tr.StartKeyword() }, "Root.Child.0.0"},
		{func() { tr.EndKeyword() }, "Root.Child.0"},
		{func() { tr.StartKeyword() }, "Root.Child.0.1"},
		{func() { tr.EndKeyword() }, "Root.Child.0"},
		{func() { tr.EndKeyword() }, "Root.Child"},
		{func() { tr.StartKeyword() }, "Root.Child.1"},
		{func() { tr.EndKeyword() }, "Root.Child"},
		{func() { tr.StartTest("Root.Child.Test") }, "Root.Child.Test"},
		{func() { tr.EndTest() }, "Root.Child"},
		{func() { tr.EndSuite() }, "Root"},
		{func() { tr.EndSuite() }, ""},
		{func() { tr.EndSuite() }, ""},
	}

	for i, step := range steps {
		step.do()
		if got := tr.Path(); got != step.want {
			t.Fatalf("step %d: Path() = %q, want %q", i, got, step.want)
		}
	}
}
