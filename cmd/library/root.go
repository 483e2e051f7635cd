package library

import (
	"fmt"

	"github.com/ValentinKolb/dSync/cmd/util"
	"github.com/ValentinKolb/dSync/lib/worker"
	"github.com/spf13/cobra"
)

var (
	w *worker.Worker

	// LibraryCommands represents the shared library command group
	LibraryCommands = &cobra.Command{
		Use:   "library",
		Short: "Use libraries shared by all workers",
		Long: `Use libraries shared by all workers.

With --queue-index the library is imported from the coordinator and its state
is shared with every other worker of the run. Without it a private instance is
created for this process.`,
		PersistentPreRunE: setupLibraryClient,
		PersistentPostRun: func(*cobra.Command, []string) { util.FinishWorker(w) },
	}

	importCmd = &cobra.Command{
		Use:   "import [name]",
		Short: "Import a library and print its keywords",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := w.ImportSharedLibrary(args[0])
			if err != nil {
				return err
			}
			for _, keyword := range lib.Keywords() {
				fmt.Println(keyword)
			}
			return nil
		},
	}

	runCmd = &cobra.Command{
		Use:   "run [library] [keyword] [args...]",
		Short: "Run a keyword of a library and print its result",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := w.ImportSharedLibrary(args[0])
			if err != nil {
				return err
			}
			result, err := lib.RunKeyword(args[1], args[2:])
			if err != nil {
				return err
			}
			fmt.Println(result)
			return nil
		},
	}
)

func init() {
	cobra.OnInitialize(util.InitClientConfig)

	LibraryCommands.AddCommand(importCmd, runCmd)
	util.SetupWorkerCommand(LibraryCommands)
}

func setupLibraryClient(cmd *cobra.Command, _ []string) (err error) {
	w, err = util.PrepareWorker(cmd)
	return err
}
