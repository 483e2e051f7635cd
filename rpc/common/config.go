package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Transport sub configurations
// --------------------------------------------------------------------------

// SocketConf holds the socket buffer sizes used by the stream transports
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds tcp specific options
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int
}

// ServerTransportConfig configures the server side of a transport
type ServerTransportConfig struct {
	Endpoint       string
	WorkersPerConn int
	SocketConf
	TCPConf
}

// ClientTransportConfig configures the client side of a transport
type ClientTransportConfig struct {
	Endpoints              []string
	RetryCount             int
	ConnectionsPerEndpoint int
	SocketConf
	TCPConf
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters of a coordinator server.
type ServerConfig struct {
	// Transport settings of the coordinator endpoint
	Transport ServerTransportConfig

	// write timeout for responses, 0 disables the timeout
	TimeoutSecond int64

	// Path of the value set resource file (INI or HCL), empty for none
	ResourceFile string

	// Host the shared library endpoints bind to
	LibraryHost string

	// Address of the prometheus metrics endpoint, empty to disable
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	orNone := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Workers Per Conn", strconv.Itoa(c.Transport.WorkersPerConn))
	addField("TCP No Delay", strconv.FormatBool(c.Transport.TCPNoDelay))

	// Coordination
	addSection("Coordination")
	addField("Resource File", orNone(c.ResourceFile))
	addField("Library Host", orNone(c.LibraryHost))

	// Observability
	addSection("Observability")
	addField("Log Level", c.LogLevel)
	addField("Metrics Endpoint", orNone(c.MetricsEndpoint))

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all configuration parameters of an rpc client
type ClientConfig struct {
	TimeoutSecond int
	Transport     ClientTransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.Transport.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(max(1, c.Transport.ConnectionsPerEndpoint)))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Transport.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}

// WithEndpoint returns a copy of the config that only targets the given endpoint
func (c ClientConfig) WithEndpoint(endpoint string) ClientConfig {
	c.Transport.Endpoints = []string{endpoint}
	return c
}
