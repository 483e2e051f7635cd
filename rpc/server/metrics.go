package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ValentinKolb/dSync/rpc/common"
	"github.com/VictoriaMetrics/metrics"
)

// serverMetrics collects per request type counters and durations of one server
type serverMetrics struct {
	set *metrics.Set
}

func newServerMetrics() *serverMetrics {
	return &serverMetrics{set: metrics.NewSet()}
}

// observe records a handled request
func (m *serverMetrics) observe(msgType common.MessageType, start time.Time, failed bool) {
	m.set.GetOrCreateCounter(fmt.Sprintf(`dsync_rpc_requests_total{type=%q}`, msgType.String())).Inc()
	if failed {
		m.set.GetOrCreateCounter(fmt.Sprintf(`dsync_rpc_errors_total{type=%q}`, msgType.String())).Inc()
	}
	m.set.GetOrCreateSummary(fmt.Sprintf(`dsync_rpc_duration_seconds{type=%q}`, msgType.String())).UpdateDuration(start)
}

// MetricsServer serves metric sets over http
type MetricsServer struct {
	server *http.Server
	addr   net.Addr
}

// Addr returns the bound address of the metrics endpoint
func (m *MetricsServer) Addr() net.Addr {
	return m.addr
}

// Close stops the metrics endpoint
func (m *MetricsServer) Close() error {
	return m.server.Close()
}

// ServeMetrics exposes the given metric sets together with the process
// metrics in the prometheus text format on http://endpoint/metrics.
// The returned server is already serving.
func ServeMetrics(endpoint string, sets ...*metrics.Set) (*MetricsServer, error) {
	listener, err := net.Listen("tcp", endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on metrics endpoint %s: %w", endpoint, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		for _, set := range sets {
			set.WritePrometheus(w)
		}
		metrics.WriteProcessMetrics(w)
	})

	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			Logger.Errorf("metrics endpoint stopped: %v", err)
		}
	}()

	Logger.Infof("Serving metrics on http://%s/metrics", listener.Addr())
	return &MetricsServer{server: srv, addr: listener.Addr()}, nil
}
