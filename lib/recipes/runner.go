package recipes

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/ValentinKolb/dSync/lib/library"
	"github.com/ValentinKolb/dSync/lib/store"
)

// FuncRunner runs keywords implemented as Go functions.
// Names are matched like library keywords (case, spaces and underscores ignored).
type FuncRunner map[string]func(ctx context.Context, args ...string) error

func (f FuncRunner) RunKeyword(ctx context.Context, name string, args ...string) error {
	for kw, fn := range f {
		if library.NormalizeKeyword(kw) == library.NormalizeKeyword(name) {
			return fn(ctx, args...)
		}
	}
	return store.Errorf(store.RetCKeyNotFound, "no keyword with name %q found", name)
}

// ExecRunner runs the keyword as an OS command, the keyword name is the program
type ExecRunner struct {
	Dir    string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner that forwards the output of the commands to this process
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (e *ExecRunner) RunKeyword(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.Dir
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	Logger.Debugf("running %s %v", name, args)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}
