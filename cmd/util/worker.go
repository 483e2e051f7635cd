package util

import (
	"os"
	"strings"

	"github.com/ValentinKolb/dSync/lib/worker"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// SetupWorkerCommand adds all flags a command group acting as a worker needs
func SetupWorkerCommand(cmd *cobra.Command) {
	SetupRPCClientFlags(cmd)
	SetupWorkerFlags(cmd)
}

// PrepareWorker binds the flags of cmd, initializes logging and creates the worker
func PrepareWorker(cmd *cobra.Command) (*worker.Worker, error) {
	if err := BindCommandFlags(cmd); err != nil {
		return nil, err
	}
	if err := InitLogging(); err != nil {
		return nil, err
	}
	return NewWorker()
}

// FinishWorker closes the connections of w. Locks and value sets stay with the
// caller id, a later command releases them. The worker metrics are written to
// stderr with log level debug.
func FinishWorker(w *worker.Worker) {
	if w == nil {
		return
	}
	if strings.EqualFold(viper.GetString("log-level"), "debug") {
		metrics.WriteOnce(w.Metrics(), os.Stderr)
	}
	w.Disconnect()
}
