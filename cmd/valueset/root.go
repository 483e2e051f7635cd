package valueset

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ValentinKolb/dSync/cmd/util"
	"github.com/ValentinKolb/dSync/lib/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	w *worker.Worker

	// ValueSetCommands represents the value set command group
	ValueSetCommands = &cobra.Command{
		Use:               "valueset",
		Aliases:           []string{"vs"},
		Short:             "Reserve value sets from the pool of the coordinator",
		PersistentPreRunE: setupValueSetClient,
		PersistentPostRun: func(*cobra.Command, []string) { util.FinishWorker(w) },
	}

	acquireCmd = &cobra.Command{
		Use:   "acquire [tags...]",
		Short: "Reserve a value set carrying all tags, waits until one is free",
		RunE:  runAcquire,
	}

	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Read a value of the value set reserved by the caller",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if value, err := w.GetValueFromSet(args[0]); err != nil {
				return err
			} else {
				fmt.Println(value)
			}
			return nil
		},
	}

	releaseCmd = &cobra.Command{
		Use:   "release",
		Short: "Release the value set reserved by the caller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := w.ReleaseValueSet(); err != nil {
				return err
			}
			fmt.Println("released successfully")
			return nil
		},
	}

	disableCmd = &cobra.Command{
		Use:   "disable [name]",
		Short: "Remove a value set from the pool for the rest of the run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := w.DisableNamedValueSet(args[0]); err != nil {
				return err
			}
			fmt.Println("disabled successfully")
			return nil
		},
	}
)

func init() {
	cobra.OnInitialize(util.InitClientConfig)

	ValueSetCommands.AddCommand(acquireCmd, getCmd, releaseCmd, disableCmd)
	util.SetupWorkerCommand(ValueSetCommands)

	acquireCmd.Flags().Duration("wait", 0, util.WrapString("How long to wait for a free value set (0 waits forever)"))
}

func setupValueSetClient(cmd *cobra.Command, _ []string) (err error) {
	w, err = util.PrepareWorker(cmd)
	return err
}

func runAcquire(cmd *cobra.Command, tags []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if wait := viper.GetDuration("wait"); wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wait)
		defer cancel()
	}

	name, err := w.AcquireValueSet(ctx, tags...)
	if err != nil {
		return err
	}

	fmt.Println(name)
	values := w.ValueSet()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Printf("  %s = %s\n", k, strings.ReplaceAll(values[k], "\n", " "))
	}
	return nil
}
