package recipes

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("recipes")

// ErrFailedElsewhere is returned if a guarded keyword already failed in another worker
var ErrFailedElsewhere = errors.New("keyword failed in another process")

// Outcomes recorded under the lock name
const (
	StatusPassed = "PASSED"
	StatusFailed = "FAILED"
)

// Well known keys
const (
	SetupLockPrefix   = "pabot_setup_"
	OnlyOncePrefix    = "pabot_run_only_once_"
	MinQueueIndexKey  = "pabot_min_queue_index_executing"
	OnlyLastKey       = "pabot_only_last_executing"
	onlyLastExecuting = "1"
)

// Recipes runs keywords through runner, synchronised via coordinator
type Recipes struct {
	coordinator Coordinator
	runner      Runner
}

// New creates the recipes of one worker
func New(coordinator Coordinator, runner Runner) *Recipes {
	return &Recipes{coordinator: coordinator, runner: runner}
}

// RunSetupOnce runs keyword only in the first worker that reaches position.
// Later workers skip it if it passed, or fail with ErrFailedElsewhere if it failed.
func (r *Recipes) RunSetupOnce(ctx context.Context, keyword string, args []string, position string) error {
	return r.runGuarded(ctx, SetupLockPrefix+position, keyword, args)
}

// RunOnlyOnce runs keyword exactly once in the whole run
func (r *Recipes) RunOnlyOnce(ctx context.Context, keyword string, args []string) error {
	return r.runGuarded(ctx, OnlyOncePrefix+keyword, keyword, args)
}

// RunTeardownOnce runs keyword once all workers have passed the last level.
// Without a last level the keyword runs unconditionally, positions outside
// the last level skip it. In a distributed run the worker waits until the
// smallest queue index still executing reaches its own.
func (r *Recipes) RunTeardownOnce(ctx context.Context, keyword string, args []string, position string, lastLevel *string, queueIndex int) error {
	if lastLevel == nil {
		return r.runner.RunKeyword(ctx, keyword, args...)
	}

	Logger.Debugf("current path %q and last level %q", position, *lastLevel)
	if !strings.HasPrefix(position, *lastLevel) {
		Logger.Infof("teardown %s skipped in this item", keyword)
		return nil
	}

	if r.coordinator.IsDistributed() {
		err := r.coordinator.WaitForValue(ctx, MinQueueIndexKey, func(value string) bool {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			return err == nil && n >= queueIndex
		})
		if err != nil {
			return err
		}
	}

	Logger.Debugf("teardown conditions met, executing %s", keyword)
	return r.runner.RunKeyword(ctx, keyword, args...)
}

// RunOnLastProcess runs keyword only on the last worker of the pool. In a
// distributed run it waits until the driver signals that only the last worker is left.
func (r *Recipes) RunOnLastProcess(ctx context.Context, keyword string, args []string, isLast bool, queueIndex int) error {
	if !isLast {
		Logger.Infof("%s skipped in this item", keyword)
		return nil
	}

	if queueIndex > 0 && r.coordinator.IsDistributed() {
		err := r.coordinator.WaitForValue(ctx, OnlyLastKey, func(value string) bool {
			return value == onlyLastExecuting
		})
		if err != nil {
			return err
		}
	}

	return r.runner.RunKeyword(ctx, keyword, args...)
}

// runGuarded runs keyword under lockName and records its outcome under the same name.
// The lock is released exactly once on every path.
func (r *Recipes) runGuarded(ctx context.Context, lockName, keyword string, args []string) (err error) {
	if err := r.coordinator.AcquireLock(ctx, lockName); err != nil {
		return err
	}
	defer func() {
		if releaseErr := r.coordinator.ReleaseLock(lockName); releaseErr != nil {
			err = errors.Join(err, releaseErr)
		}
	}()

	status, err := r.coordinator.GetParallelValueForKey(lockName)
	if err != nil {
		return err
	}

	switch status {
	case "":
	case StatusFailed:
		return fmt.Errorf("%w: %s", ErrFailedElsewhere, lockName)
	default:
		Logger.Infof("%s skipped in this item", keyword)
		return nil
	}

	if runErr := r.runner.RunKeyword(ctx, keyword, args...); runErr != nil {
		if setErr := r.coordinator.SetParallelValueForKey(lockName, StatusFailed); setErr != nil {
			return errors.Join(runErr, setErr)
		}
		return runErr
	}
	return r.coordinator.SetParallelValueForKey(lockName, StatusPassed)
}
