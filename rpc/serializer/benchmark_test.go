package serializer

import (
	"strings"
	"testing"

	"github.com/ValentinKolb/dSync/rpc/common"
)

// benchmarkMessages returns a set of messages for targeted benchmarking
func benchmarkMessages() map[string]common.Message {
	return map[string]common.Message{
		"Empty": {
			MsgType: common.MsgTSuccess,
		},
		"LockAcquire": {
			MsgType: common.MsgTLCKAcquire,
			Key:     "pabot_setup_Suite.Sub Suite.Test",
			Caller:  "7f1c5d3e-5b36-4f9e-9d0b-3f3c2a9c1e11",
		},
		"KVGet": {
			MsgType: common.MsgTKVGet,
			Key:     "pabot_min_queue_index_executing",
		},
		"KVSet": {
			MsgType: common.MsgTKVSet,
			Key:     "pabot_run_only_once_Create Database",
			Value:   "PASSED",
		},
		"LargeValue": {
			MsgType: common.MsgTKVSet,
			Key:     "key",
			Value:   strings.Repeat("x", 1024), // 1KB of data
		},
		"ValueSetRequest": {
			MsgType: common.MsgTVSAcquire,
			Caller:  "7f1c5d3e-5b36-4f9e-9d0b-3f3c2a9c1e11",
			Tags:    []string{"admin", "linux", "fast"},
		},
		"ValueSetResponse": {
			MsgType: common.MsgTVSAcquire,
			Key:     "admin-user-1",
			Data: map[string]string{
				"tags":     "admin,linux,fast",
				"username": "admin",
				"password": "secret",
				"host":     "db.example.com",
			},
		},
		"ErrorMessage": {
			MsgType: common.MsgTError,
			Code:    7,
			Err:     "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.",
		},
	}
}

// BenchmarkSerialize benchmarks serialization for all implementations with various message types
func BenchmarkSerialize(b *testing.B) {
	messages := benchmarkMessages()

	for name, factory := range testSerializers {
		for msgName, msg := range messages {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				serializer := factory()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					_, err := serializer.Serialize(msg)
					if err != nil {
						b.Fatalf("Failed to serialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkDeserialize benchmarks deserialization for all implementations with various message types
func BenchmarkDeserialize(b *testing.B) {
	messages := benchmarkMessages()
	serializedData := make(map[string]map[string][]byte)

	// Pre-serialize all messages with all serializers
	for name, factory := range testSerializers {
		serializer := factory()
		serializedData[name] = make(map[string][]byte)

		for msgName, msg := range messages {
			data, err := serializer.Serialize(msg)
			if err != nil {
				b.Fatalf("Failed to serialize %s with %s: %v", msgName, name, err)
			}
			serializedData[name][msgName] = data
		}
	}

	// Benchmark deserialization
	for name, factory := range testSerializers {
		for msgName := range messages {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				serializer := factory()
				data := serializedData[name][msgName]
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					var msg common.Message
					err := serializer.Deserialize(data, &msg)
					if err != nil {
						b.Fatalf("Failed to deserialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkSize measures and reports the serialized size for each message type
func BenchmarkSize(b *testing.B) {
	messages := benchmarkMessages()

	for name, factory := range testSerializers {
		serializer := factory()

		for msgName, msg := range messages {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				data, err := serializer.Serialize(msg)
				if err != nil {
					b.Fatalf("Failed to serialize: %v", err)
				}

				// Report the size as a custom metric
				b.ReportMetric(float64(len(data)), "bytes")

				// Minimal loop to satisfy benchmark requirements
				for i := 0; i < b.N; i++ {
					_ = data
				}
			})
		}
	}
}
