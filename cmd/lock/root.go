package lock

import (
	"context"
	"fmt"

	"github.com/ValentinKolb/dSync/cmd/util"
	"github.com/ValentinKolb/dSync/lib/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	w *worker.Worker

	// LockCommands represents the lock command group
	LockCommands = &cobra.Command{
		Use:   "lock",
		Short: "Perform lock operations",
		Long: `Perform lock operations on the coordinator.

Locks belong to the caller id, so a lock acquired by one command can be
released by a later command started with the same --caller-id.`,
		PersistentPreRunE: setupLockClient,
		PersistentPostRun: func(*cobra.Command, []string) { util.FinishWorker(w) },
	}

	// acquireCmd represents the acquire command
	acquireCmd = &cobra.Command{
		Use:   "acquire [name]",
		Short: "Acquire a lock, waits until it is free",
		Args:  cobra.ExactArgs(1),
		RunE:  runAcquire,
	}

	// releaseCmd represents the release command
	releaseCmd = &cobra.Command{
		Use:   "release [name]",
		Short: "Release a previously acquired lock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := w.ReleaseLock(args[0]); err != nil {
				return err
			}
			fmt.Println("released successfully")
			return nil
		},
	}

	// releaseLocksCmd releases every lock of the caller
	releaseLocksCmd = &cobra.Command{
		Use:   "release-locks",
		Short: "Release every lock held by the caller once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := w.ReleaseLocks(); err != nil {
				return err
			}
			fmt.Println("released successfully")
			return nil
		},
	}

	// releaseAllCmd drops every lock
	releaseAllCmd = &cobra.Command{
		Use:   "release-all",
		Short: "Release every lock of every caller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := w.ReleaseAllLocks(); err != nil {
				return err
			}
			fmt.Println("released successfully")
			return nil
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add subcommands to lock command
	LockCommands.AddCommand(acquireCmd, releaseCmd, releaseLocksCmd, releaseAllCmd)

	// Add common RPC and worker flags to the lock command
	util.SetupWorkerCommand(LockCommands)

	// Add flags specific to acquire
	acquireCmd.Flags().Duration("wait", 0, util.WrapString("How long to wait for the lock (0 waits forever)"))
}

// setupLockClient initializes the worker
func setupLockClient(cmd *cobra.Command, _ []string) (err error) {
	w, err = util.PrepareWorker(cmd)
	return err
}

func runAcquire(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if wait := viper.GetDuration("wait"); wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wait)
		defer cancel()
	}

	if err := w.AcquireLock(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("lock %q acquired by %s\n", args[0], w.CallerID())
	return nil
}
