package recipes

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/ValentinKolb/dSync/lib/store"
)

func TestFuncRunner(t *testing.T) {
	var got []string
	r := FuncRunner{
		"Log Args": func(_ context.Context, args ...string) error {
			got = args
			return nil
		},
	}

	if err := r.RunKeyword(context.Background(), "log_args", "a", "b"); err != nil {
		t.Fatalf("RunKeyword failed: %v", err)
	}
	if strings.Join(got, ",") != "a,b" {
		t.Errorf("args = %v, want [a b]", got)
	}
	if err := r.RunKeyword(context.Background(), "Other"); !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("RunKeyword(Other) = %v, want ErrKeyNotFound", err)
	}
}

func TestExecRunner(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	var out bytes.Buffer
	r := &ExecRunner{Stdout: &out, Stderr: &out}

	if err := r.RunKeyword(context.Background(), "sh", "-c", "echo ok"); err != nil {
		t.Fatalf("RunKeyword failed: %v", err)
	}
	if strings.TrimSpace(out.String()) != "ok" {
		t.Errorf("output = %q, want ok", out.String())
	}
	if err := r.RunKeyword(context.Background(), "sh", "-c", "exit 3"); err == nil {
		t.Errorf("failing command did not return an error")
	}
}
