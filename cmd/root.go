package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dSync/cmd/kv"
	"github.com/ValentinKolb/dSync/cmd/library"
	"github.com/ValentinKolb/dSync/cmd/lock"
	"github.com/ValentinKolb/dSync/cmd/run"
	"github.com/ValentinKolb/dSync/cmd/serve"
	"github.com/ValentinKolb/dSync/cmd/util"
	"github.com/ValentinKolb/dSync/cmd/valueset"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dsync",
		Short: "coordination service for parallel test workers",
		Long: fmt.Sprintf(`dSync (v%s)

A coordination service for parallel workers. One coordinator holds locks,
a shared key/value store and a pool of value sets, workers talk to it over RPC
to run setups only once, wait for each other and share libraries.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dSync",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dSync v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(lock.LockCommands)
	RootCmd.AddCommand(valueset.ValueSetCommands)
	RootCmd.AddCommand(library.LibraryCommands)
	RootCmd.AddCommand(run.RunCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob, binary, msgpack)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "http", util.WrapString("transport to use (http, tcp, unix)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
