package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"testing"

	"github.com/ValentinKolb/dSync/lib/coordinator"
	"github.com/ValentinKolb/dSync/lib/library/builtin"
	"github.com/ValentinKolb/dSync/lib/store"
	"github.com/ValentinKolb/dSync/lib/valueset"
	"github.com/ValentinKolb/dSync/rpc/common"
	"github.com/ValentinKolb/dSync/rpc/serializer"
	"github.com/ValentinKolb/dSync/rpc/transport"
	"github.com/ValentinKolb/dSync/rpc/transport/tcp"
)

var serializers = map[string]serializer.IRPCSerializer{
	"binary":  serializer.NewBinarySerializer(),
	"json":    serializer.NewJSONSerializer(),
	"gob":     serializer.NewGOBSerializer(),
	"msgpack": serializer.NewMsgpackSerializer(),
}

func testConfig() common.ServerConfig {
	return common.ServerConfig{
		Transport: common.ServerTransportConfig{Endpoint: "127.0.0.1:0"},
		LogLevel:  "error",
	}
}

func testValueSets() []valueset.ValueSet {
	return []valueset.ValueSet{
		{Name: "Admin", Tags: []string{"admin"}, Data: map[string]string{"user": "root"}},
		{Name: "Guest", Tags: []string{"guest"}, Data: map[string]string{"user": "anon"}},
	}
}

// startServer starts a coordinator server and returns a connected client transport
func startServer(t *testing.T, s serializer.IRPCSerializer, opts ...coordinator.Option) (*RPCServer, transport.IRPCClientTransport) {
	t.Helper()

	srv := NewRPCServer(testConfig(), tcp.NewTCPServerTransport(), s)
	srv.RegisterShard(common.ShardCoordinator, NewCoordinatorServerAdapter(coordinator.New(opts...)))

	addr, err := srv.Listen()
	if err != nil {
		t.Fatalf("Listen() failed: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- srv.Serve() }()

	client := tcp.NewTCPClientTransport()
	if err := client.Connect(common.ClientConfig{
		TimeoutSecond: 5,
		Transport: common.ClientTransportConfig{
			Endpoints:  []string{addr.String()},
			RetryCount: 1,
		},
	}); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
		_ = srv.Stop()
		if err := <-done; err != nil {
			t.Errorf("Serve() returned %v", err)
		}
	})
	return srv, client
}

// call sends req to the shard and returns the decoded response
func call(t *testing.T, client transport.IRPCClientTransport, s serializer.IRPCSerializer, shard uint64, req *common.Message) *common.Message {
	t.Helper()

	reqBytes, err := s.Serialize(*req)
	if err != nil {
		t.Fatalf("Serialize() failed: %v", err)
	}
	respBytes, err := client.Send(shard, reqBytes)
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	var resp common.Message
	if err := s.Deserialize(respBytes, &resp); err != nil {
		t.Fatalf("Deserialize() failed: %v", err)
	}
	return &resp
}

func TestCoordinatorAdapter(t *testing.T) {
	adapter := NewCoordinatorServerAdapter(coordinator.New(coordinator.WithValueSets(testValueSets())))

	tests := []struct {
		name  string
		req   *common.Message
		check func(t *testing.T, resp *common.Message)
	}{
		{
			name: "set value",
			req:  common.NewSetRequest("k", "v"),
			check: func(t *testing.T, resp *common.Message) {
				if resp.Err != "" {
					t.Errorf("unexpected error %q", resp.Err)
				}
			},
		},
		{
			name: "get value",
			req:  common.NewGetRequest("k"),
			check: func(t *testing.T, resp *common.Message) {
				if resp.Value != "v" {
					t.Errorf("Value = %q, want v", resp.Value)
				}
			},
		},
		{
			name: "acquire lock",
			req:  common.NewAcquireLockRequest("L", "w1"),
			check: func(t *testing.T, resp *common.Message) {
				if !resp.Ok {
					t.Errorf("lock was not granted")
				}
			},
		},
		{
			name: "acquire held lock",
			req:  common.NewAcquireLockRequest("L", "w2"),
			check: func(t *testing.T, resp *common.Message) {
				if resp.Ok || resp.Err != "" {
					t.Errorf("got ok=%v err=%q, want a plain refusal", resp.Ok, resp.Err)
				}
			},
		},
		{
			name: "release foreign lock",
			req:  common.NewReleaseLockRequest("L", "w2"),
			check: func(t *testing.T, resp *common.Message) {
				if !errors.Is(resp.AsError(), store.ErrLockNotOwned) {
					t.Errorf("AsError() = %v, want ErrLockNotOwned", resp.AsError())
				}
			},
		},
		{
			name: "reserve value set",
			req:  common.NewAcquireValueSetRequest("w1", []string{"admin"}),
			check: func(t *testing.T, resp *common.Message) {
				if resp.Key != "Admin" || resp.Data["user"] != "root" {
					t.Errorf("got %q %v, want Admin with user=root", resp.Key, resp.Data)
				}
			},
		},
		{
			name: "read from value set",
			req:  common.NewGetValueFromSetRequest("user", "w1"),
			check: func(t *testing.T, resp *common.Message) {
				if resp.Value != "root" {
					t.Errorf("Value = %q, want root", resp.Value)
				}
			},
		},
		{
			name: "import without broker",
			req:  common.NewImportLibraryRequest("Counter"),
			check: func(t *testing.T, resp *common.Message) {
				if !errors.Is(resp.AsError(), store.ErrLibraryNotEnabled) {
					t.Errorf("AsError() = %v, want ErrLibraryNotEnabled", resp.AsError())
				}
			},
		},
		{
			name: "unsupported type",
			req:  common.NewRunKeywordRequest("Increment", nil),
			check: func(t *testing.T, resp *common.Message) {
				if resp.MsgType != common.MsgTError {
					t.Errorf("MsgType = %s, want %s", resp.MsgType, common.MsgTError)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, adapter.Handle(tt.req))
		})
	}
}

func TestLibraryAdapter(t *testing.T) {
	lib, err := builtin.NewCounter()
	if err != nil {
		t.Fatalf("NewCounter() failed: %v", err)
	}
	adapter := NewLibraryServerAdapter(lib)

	resp := adapter.Handle(common.NewRunKeywordRequest("Increment", []string{"3"}))
	if resp.Err != "" || resp.Value != "3" {
		t.Errorf("Increment 3 = %q, %q", resp.Value, resp.Err)
	}

	resp = adapter.Handle(common.NewKeywordsRequest())
	if !slices.Contains(resp.Tags, "Increment") {
		t.Errorf("keywords %v do not contain Increment", resp.Tags)
	}

	resp = adapter.Handle(common.NewRunKeywordRequest("Unknown Keyword", nil))
	if resp.Err == "" {
		t.Errorf("unknown keyword did not fail")
	}

	resp = adapter.Handle(common.NewGetRequest("k"))
	if resp.MsgType != common.MsgTError {
		t.Errorf("MsgType = %s, want %s", resp.MsgType, common.MsgTError)
	}
}

func TestNilTargets(t *testing.T) {
	if resp := NewCoordinatorServerAdapter(nil).Handle(common.NewGetRequest("k")); resp.Err == "" {
		t.Errorf("nil coordinator did not fail")
	}
	if resp := NewLibraryServerAdapter(nil).Handle(common.NewKeywordsRequest()); resp.Err == "" {
		t.Errorf("nil library did not fail")
	}
}

func TestServerRoundTrip(t *testing.T) {
	for name, s := range serializers {
		t.Run(name, func(t *testing.T) {
			_, client := startServer(t, s, coordinator.WithValueSets(testValueSets()))

			if resp := call(t, client, s, common.ShardCoordinator, common.NewSetRequest("phase", "done")); resp.Err != "" {
				t.Fatalf("set failed: %s", resp.Err)
			}
			if resp := call(t, client, s, common.ShardCoordinator, common.NewGetRequest("phase")); resp.Value != "done" {
				t.Errorf("get = %q, want done", resp.Value)
			}

			resp := call(t, client, s, common.ShardCoordinator, common.NewAcquireValueSetRequest("w1", []string{"guest"}))
			if resp.Key != "Guest" {
				t.Fatalf("reserved %q, want Guest", resp.Key)
			}
			if resp.Data[valueset.TagsKey] != "guest" {
				t.Errorf("tags entry = %q, want guest", resp.Data[valueset.TagsKey])
			}

			// held by w1: try later
			resp = call(t, client, s, common.ShardCoordinator, common.NewAcquireValueSetRequest("w2", []string{"guest"}))
			if resp.Err != "" || resp.Key != "" {
				t.Errorf("second reservation = %q, %q, want empty name and no error", resp.Key, resp.Err)
			}

			resp = call(t, client, s, common.ShardCoordinator, common.NewAcquireValueSetRequest("w2", []string{"missing"}))
			if !errors.Is(resp.AsError(), store.ErrNoMatch) {
				t.Errorf("reservation of unknown tag: %v, want ErrNoMatch", resp.AsError())
			}
		})
	}
}

func TestServerUnknownShard(t *testing.T) {
	s := serializer.NewBinarySerializer()
	_, client := startServer(t, s)

	resp := call(t, client, s, 99, common.NewGetRequest("k"))
	if resp.MsgType != common.MsgTError || !strings.Contains(resp.Err, "99") {
		t.Errorf("got %s %q, want error for shard 99", resp.MsgType, resp.Err)
	}
}

func TestServerMetrics(t *testing.T) {
	s := serializer.NewBinarySerializer()
	srv, client := startServer(t, s)

	for i := 0; i < 3; i++ {
		call(t, client, s, common.ShardCoordinator, common.NewGetRequest(fmt.Sprintf("k%d", i)))
	}
	call(t, client, s, common.ShardCoordinator, common.NewReleaseLockRequest("L", "w1"))

	var sb strings.Builder
	srv.Metrics().WritePrometheus(&sb)
	out := sb.String()

	for _, want := range []string{
		`dsync_rpc_requests_total{type="get_parallel_value_for_key"} 3`,
		`dsync_rpc_errors_total{type="release_lock"} 1`,
		`dsync_rpc_duration_seconds_count{type="get_parallel_value_for_key"} 3`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics do not contain %q:\n%s", want, out)
		}
	}
}

func TestServeMetricsEndpoint(t *testing.T) {
	srv := NewRPCServer(testConfig(), tcp.NewTCPServerTransport(), serializer.NewBinarySerializer())
	srv.RegisterShard(common.ShardCoordinator, NewCoordinatorServerAdapter(coordinator.New()))
	srv.handle(common.ShardCoordinator, mustSerialize(t, common.NewGetRequest("k")))

	metricsSrv, err := ServeMetrics("127.0.0.1:0", srv.Metrics())
	if err != nil {
		t.Fatalf("ServeMetrics() failed: %v", err)
	}
	defer metricsSrv.Close()

	resp, err := http.Get("http://" + metricsSrv.Addr().String() + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `dsync_rpc_requests_total{type="get_parallel_value_for_key"} 1`) {
		t.Errorf("unexpected metrics output:\n%s", body)
	}
}

func mustSerialize(t *testing.T, msg *common.Message) []byte {
	t.Helper()
	b, err := serializer.NewBinarySerializer().Serialize(*msg)
	if err != nil {
		t.Fatalf("Serialize() failed: %v", err)
	}
	return b
}
