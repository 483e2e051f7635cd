package kv

import (
	"github.com/ValentinKolb/dSync/cmd/util"
	"github.com/ValentinKolb/dSync/lib/worker"
	"github.com/spf13/cobra"
)

var (
	w *worker.Worker

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Read and write values shared by all workers",
		PersistentPreRunE: setupKVClient,
		PersistentPostRun: func(*cobra.Command, []string) { util.FinishWorker(w) },
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC and worker flags to the KV command
	util.SetupWorkerCommand(KeyValueCommands)

	// Add subcommands
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// setupKVClient initializes the worker used by the kv commands
func setupKVClient(cmd *cobra.Command, _ []string) (err error) {
	w, err = util.PrepareWorker(cmd)
	return err
}
