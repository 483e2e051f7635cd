package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ValentinKolb/dSync/lib/library/builtin"
	"github.com/ValentinKolb/dSync/lib/worker"
	"github.com/ValentinKolb/dSync/rpc/common"
	"github.com/ValentinKolb/dSync/rpc/serializer"
	"github.com/ValentinKolb/dSync/rpc/transport"
	"github.com/ValentinKolb/dSync/rpc/transport/http"
	"github.com/ValentinKolb/dSync/rpc/transport/tcp"
	"github.com/ValentinKolb/dSync/rpc/transport/unix"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// EnvPrefix is the prefix of all environment variables read by dsync
	EnvPrefix = "dsync"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupRPCClientFlags adds common RPC connection flags to a command
func SetupRPCClientFlags(cmd *cobra.Command) {
	key := "timeout"
	cmd.PersistentFlags().Int(key, 10, WrapString("The timeout in seconds of the client"))

	key = "uri"
	cmd.PersistentFlags().String(key, "", WrapString("The endpoint of the coordinator (e.g. localhost:8270, http://localhost:8270, /tmp/dsync.sock). Without an endpoint an in-process coordinator is used"))

	key = "transport-conn-per-endpoint"
	cmd.PersistentFlags().Int(key, 1, WrapString("Simultaneous connections per endpoint - for transports that support this feature"))

	key = "transport-retries"
	cmd.PersistentFlags().Int(key, 3, WrapString("How many times to retry the request"))

	key = "transport-write-buffer"
	cmd.PersistentFlags().Int(key, 64, WrapString("The size of the write buffer for the transport (in KB, ignored for http)"))

	key = "transport-read-buffer"
	cmd.PersistentFlags().Int(key, 64, WrapString("The size of the read buffer for the transport (in KB, ignored for http)"))

	key = "transport-tcp-nodelay"
	cmd.PersistentFlags().Bool(key, true, WrapString("Whether to enable TCP_NODELAY for the transport (only for tcp)"))

	key = "transport-tcp-keepalive"
	cmd.PersistentFlags().Int(key, 0, WrapString("The keepalive interval for the transport (in seconds, only for tcp)"))

	key = "transport-tcp-linger"
	cmd.PersistentFlags().Int(key, 0, WrapString("The linger time for the transport (in seconds, only for tcp)"))
}

// SetupWorkerFlags adds the flags describing the worker the command acts for
func SetupWorkerFlags(cmd *cobra.Command) {
	key := "caller-id"
	cmd.PersistentFlags().String(key, "", WrapString("The id of the worker. A random id is generated if empty, commands that must be matched (acquire/release) need a fixed id"))

	key = "queue-index"
	cmd.PersistentFlags().String(key, "", WrapString("The queue index of the worker, empty if not part of a parallel run"))

	key = "is-last"
	cmd.PersistentFlags().Int(key, 1, WrapString("1 if this is the last worker of the pool"))

	key = "last-level"
	cmd.PersistentFlags().String(key, "", WrapString("The position prefix of the last level of the run"))

	key = "position"
	cmd.PersistentFlags().String(key, "", WrapString("The position of the current step"))

	key = "poll-interval"
	cmd.PersistentFlags().Duration(key, 0, WrapString("Interval between lock and value set attempts (0 = default)"))
}

// InitClientConfig initializes configuration from environment variables
func InitClientConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// InitLogging sets the log level of all loggers from the log-level flag
func InitLogging() error {
	return common.InitLoggers(viper.GetString("log-level"))
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() *common.ClientConfig {
	conf := &common.ClientConfig{
		TimeoutSecond: viper.GetInt("timeout"),
		Transport: common.ClientTransportConfig{
			RetryCount:             viper.GetInt("transport-retries"),
			ConnectionsPerEndpoint: viper.GetInt("transport-conn-per-endpoint"),
			SocketConf: common.SocketConf{
				WriteBufferSize: viper.GetInt("transport-write-buffer") * 1024,
				ReadBufferSize:  viper.GetInt("transport-read-buffer") * 1024,
			},
			TCPConf: common.TCPConf{
				TCPKeepAliveSec: viper.GetInt("transport-tcp-keepalive"),
				TCPLingerSec:    viper.GetInt("transport-tcp-linger"),
				TCPNoDelay:      viper.GetBool("transport-tcp-nodelay"),
			},
		},
	}

	if uri := viper.GetString("uri"); uri != "" {
		conf.Transport.Endpoints = []string{uri}
	}

	return conf
}

// GetEnv reads the worker environment from viper (flags and DSYNC_* variables)
func GetEnv() (worker.Env, error) {
	env := worker.Env{
		CallerID:            viper.GetString("caller-id"),
		CoordinatorEndpoint: viper.GetString("uri"),
		IsLast:              viper.GetInt("is-last") == 1,
		Position:            viper.GetString("position"),
	}

	if env.CallerID == "" {
		env.CallerID = uuid.NewString()
	}

	if raw := viper.GetString("queue-index"); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			return worker.Env{}, fmt.Errorf("invalid queue index %q: %w", raw, err)
		}
		env.QueueIndex = &idx
	}

	if viper.IsSet("last-level") {
		lastLevel := viper.GetString("last-level")
		env.LastLevel = &lastLevel
	}

	return env, nil
}

// NewWorker creates the worker facade configured by flags and environment
func NewWorker() (*worker.Worker, error) {
	env, err := GetEnv()
	if err != nil {
		return nil, err
	}

	s, err := GetSerializer()
	if err != nil {
		return nil, err
	}

	newTransport, err := GetTransportFactory()
	if err != nil {
		return nil, err
	}
	newLibraryTransport := newTransport
	if viper.GetString("transport") == "unix" {
		// shared libraries are always served on tcp
		newLibraryTransport = tcp.NewTCPClientTransport
	}

	config := *GetClientConfig()
	opts := []worker.Option{
		worker.WithConnector(worker.RPCConnector(config, newTransport, s)),
		worker.WithLibraryDialer(worker.RPCLibraryDialer(config, newLibraryTransport, s)),
		worker.WithRegistry(builtin.NewRegistry()),
	}
	if d := viper.GetDuration("poll-interval"); d > 0 {
		opts = append(opts, worker.WithPollInterval(d))
	}

	return worker.New(env, opts...)
}

// GetSerializer creates a serializer based on configuration
func GetSerializer() (serializer.IRPCSerializer, error) {
	return serializer.ByName(viper.GetString("serializer"))
}

// GetTransportFactory returns the constructor of the configured client transport
func GetTransportFactory() (func() transport.IRPCClientTransport, error) {
	switch viper.GetString("transport") {
	case "http":
		return http.NewHttpClientTransport, nil
	case "tcp":
		return tcp.NewTCPClientTransport, nil
	case "unix":
		return unix.NewUnixClientTransport, nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}

// GetTransport creates transport based on configuration
func GetTransport() (transport.IRPCClientTransport, error) {
	newTransport, err := GetTransportFactory()
	if err != nil {
		return nil, err
	}
	return newTransport(), nil
}

// GetServerTransportFactory returns the constructor of the configured server transport
func GetServerTransportFactory() (func() transport.IRPCServerTransport, error) {
	switch viper.GetString("transport") {
	case "http":
		return http.NewHttpServerTransport, nil
	case "tcp":
		return tcp.NewTCPServerTransport, nil
	case "unix":
		return unix.NewUnixDefaultServerTransport, nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
