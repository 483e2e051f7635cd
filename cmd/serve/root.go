package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	cmdUtil "github.com/ValentinKolb/dSync/cmd/util"
	"github.com/ValentinKolb/dSync/lib/coordinator"
	"github.com/ValentinKolb/dSync/lib/library/builtin"
	"github.com/ValentinKolb/dSync/lib/valueset"
	"github.com/ValentinKolb/dSync/rpc/common"
	"github.com/ValentinKolb/dSync/rpc/server"
	"github.com/ValentinKolb/dSync/rpc/transport/tcp"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the dSync coordinator",
		Long:    `Start the dSync coordinator with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is DSYNC_<flag> (e.g. DSYNC_RESOURCE_FILE=valuesets.ini)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8270", cmdUtil.WrapString("The address on which the coordinator will listen (e.g. localhost:8270, /tmp/dsync.sock, ...)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Write timeout for responses in seconds (0 disables the timeout)"))

	key = "resource-file"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Value set definitions (.ini or .hcl). Each section / value_set block is one set, the tags key holds a comma separated list of tags"))

	key = "library-host"
	ServeCmd.PersistentFlags().String(key, "127.0.0.1", cmdUtil.WrapString("The host shared libraries are served on. Shared libraries always use the tcp transport when the coordinator runs on a unix socket"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Address of the prometheus metrics endpoint (e.g. localhost:9270), disabled if empty"))

	key = "workers-per-conn"
	ServeCmd.PersistentFlags().Int(key, 16, cmdUtil.WrapString("Number of requests handled concurrently per connection (tcp and unix only)"))

	key = "transport-write-buffer"
	ServeCmd.PersistentFlags().Int(key, 64, cmdUtil.WrapString("The size of the write buffer for the transport (in KB, ignored for http)"))

	key = "transport-read-buffer"
	ServeCmd.PersistentFlags().Int(key, 64, cmdUtil.WrapString("The size of the read buffer for the transport (in KB, ignored for http)"))

	key = "transport-tcp-nodelay"
	ServeCmd.PersistentFlags().Bool(key, true, cmdUtil.WrapString("Whether to enable TCP_NODELAY for the transport (only for tcp)"))

	key = "transport-tcp-keepalive"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The keepalive interval for the transport (in seconds, only for tcp)"))

	key = "transport-tcp-linger"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The linger time for the transport (in seconds, only for tcp)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.Transport = common.ServerTransportConfig{
		Endpoint:       viper.GetString("endpoint"),
		WorkersPerConn: viper.GetInt("workers-per-conn"),
		SocketConf: common.SocketConf{
			WriteBufferSize: viper.GetInt("transport-write-buffer") * 1024,
			ReadBufferSize:  viper.GetInt("transport-read-buffer") * 1024,
		},
		TCPConf: common.TCPConf{
			TCPNoDelay:      viper.GetBool("transport-tcp-nodelay"),
			TCPKeepAliveSec: viper.GetInt("transport-tcp-keepalive"),
			TCPLingerSec:    viper.GetInt("transport-tcp-linger"),
		},
	}
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.ResourceFile = viper.GetString("resource-file")
	serveCmdConfig.LibraryHost = viper.GetString("library-host")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	if serveCmdConfig.Transport.Endpoint == "" {
		return fmt.Errorf("an endpoint is required")
	}

	return common.InitLoggers(serveCmdConfig.LogLevel)
}

// run starts the coordinator and blocks until it is stopped by a signal
func run(_ *cobra.Command, _ []string) error {
	// parse the serializer
	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	// parse the transport
	newTransport, err := cmdUtil.GetServerTransportFactory()
	if err != nil {
		return err
	}

	// shared libraries need a network endpoint
	newLibraryTransport := newTransport
	if viper.GetString("transport") == "unix" {
		newLibraryTransport = tcp.NewTCPServerTransport
	}

	// load the value sets
	var sets []valueset.ValueSet
	if serveCmdConfig.ResourceFile != "" {
		if sets, err = valueset.Load(serveCmdConfig.ResourceFile); err != nil {
			return err
		}
	}

	broker := server.NewBroker(builtin.NewRegistry(), *serveCmdConfig, newLibraryTransport, s)
	coord := coordinator.New(
		coordinator.WithValueSets(sets),
		coordinator.WithLibraryImporter(broker),
	)
	defer func() {
		if err := coord.Close(); err != nil {
			server.Logger.Errorf("failed to stop shared libraries: %v", err)
		}
	}()

	srv := server.NewRPCServer(*serveCmdConfig, newTransport(), s)
	srv.RegisterShard(common.ShardCoordinator, server.NewCoordinatorServerAdapter(coord))
	registerGauges(srv, coord, broker)

	addr, err := srv.Listen()
	if err != nil {
		return err
	}

	if serveCmdConfig.MetricsEndpoint != "" {
		metricsServer, err := server.ServeMetrics(serveCmdConfig.MetricsEndpoint, srv.Metrics())
		if err != nil {
			_ = srv.Stop()
			return err
		}
		defer metricsServer.Close()
	}

	// stop on SIGINT / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		server.Logger.Infof("Shutting down coordinator")
		_ = srv.Stop()
	}()

	server.Logger.Infof("Coordinator serving %d value sets on %s (%s, %s)", len(sets), addr, viper.GetString("transport"), viper.GetString("serializer"))

	return srv.Serve()
}

// registerGauges exposes the coordination state of the server
func registerGauges(srv *server.RPCServer, coord *coordinator.Coordinator, broker *server.Broker) {
	set := srv.Metrics()
	set.GetOrCreateGauge("dsync_held_locks", func() float64 {
		return float64(coord.Stats().HeldLocks)
	})
	set.GetOrCreateGauge("dsync_value_sets", func() float64 {
		return float64(coord.Stats().ValueSets)
	})
	set.GetOrCreateGauge("dsync_reserved_value_sets", func() float64 {
		return float64(coord.Stats().ReservedSets)
	})
	set.GetOrCreateGauge("dsync_shared_libraries", func() float64 {
		return float64(len(broker.Libraries()))
	})
}

// initConfig reads in serveCmdConfig file and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix(cmdUtil.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
