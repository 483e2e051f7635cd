package worker

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Env holds the values the driver hands to a worker process
type Env struct {
	// CallerID identifies the worker, required
	CallerID string
	// CoordinatorEndpoint of the coordinator, empty for an in-process coordinator
	CoordinatorEndpoint string
	// QueueIndex of the worker, nil if not part of a parallel run
	QueueIndex *int
	// IsLast is set for the last worker of the pool
	IsLast bool
	// LastLevel is the position prefix of the last level of the run, nil if unknown
	LastLevel *string
	// Position of the current step
	Position string
}

// Distributed reports whether the env points to a remote coordinator
func (e Env) Distributed() bool {
	return e.CoordinatorEndpoint != ""
}

// libraryEndpoint returns the endpoint of a shared library served on port by
// the host of the coordinator. Non network endpoints (unix sockets) map to localhost.
func libraryEndpoint(coordinator string, port uint64) string {
	p := strconv.FormatUint(port, 10)

	if strings.Contains(coordinator, "://") {
		if u, err := url.Parse(coordinator); err == nil && u.Host != "" {
			return fmt.Sprintf("%s://%s", u.Scheme, net.JoinHostPort(dialHost(u.Hostname()), p))
		}
	}

	host, _, err := net.SplitHostPort(coordinator)
	if err != nil {
		host = ""
	}
	return net.JoinHostPort(dialHost(host), p)
}

// dialHost replaces wildcard and empty hosts with the loopback address
func dialHost(host string) string {
	switch host {
	case "", "0.0.0.0", "::":
		return "127.0.0.1"
	default:
		return host
	}
}
