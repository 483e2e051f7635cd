package base

import (
	"bytes"
	"net"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		shardID   uint64
		requestID uint64
		data      []byte
		buf       []byte
	}{
		{"empty payload", 1, 2, []byte{}, nil},
		{"small payload with pooled buffer", 1, 42, []byte("acquire_lock"), make([]byte, 1024)},
		{"payload larger than buffer", 2, 7, bytes.Repeat([]byte{0xAB}, 4096), make([]byte, 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := tcpPair(t)

			written := make(chan error, 1)
			go func() {
				written <- writeFrame(client, tt.shardID, tt.requestID, tt.data)
			}()

			shardID, requestID, data, err := readFrame(server, tt.buf)
			if werr := <-written; werr != nil {
				t.Fatalf("writeFrame() failed: %v", werr)
			}
			if err != nil {
				t.Fatalf("readFrame() failed: %v", err)
			}
			if shardID != tt.shardID {
				t.Errorf("shardID = %d, want %d", shardID, tt.shardID)
			}
			if requestID != tt.requestID {
				t.Errorf("requestID = %d, want %d", requestID, tt.requestID)
			}
			if !bytes.Equal(data, tt.data) {
				t.Errorf("payload mismatch: got %d bytes, want %d bytes", len(data), len(tt.data))
			}
		})
	}
}

func TestReadFrameClosedConnection(t *testing.T) {
	client, server := net.Pipe()
	_ = client.Close()
	defer server.Close()

	if _, _, _, err := readFrame(server, nil); err == nil {
		t.Errorf("expected error when reading from a closed connection")
	}
}

func TestReadFrameTooLarge(t *testing.T) {
	client, server := tcpPair(t)

	var header [frameHeaderSize]byte
	frameHeader{shardID: 1, requestID: 1, length: maxFrameSize + 1}.put(header[:])
	if _, err := client.Write(header[:]); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	if _, _, _, err := readFrame(server, nil); err == nil {
		t.Errorf("expected error for oversized frame")
	}
}

func TestWriteFrameTooLarge(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	if err := writeFrame(client, 1, 1, make([]byte, maxFrameSize+1)); err == nil {
		t.Errorf("expected error for oversized payload")
	}
}

// tcpPair returns both ends of a loopback tcp connection. Unlike net.Pipe,
// writes do not wait for the reader.
func tcpPair(t *testing.T) (client, server net.Conn) {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() failed: %v", err)
	}
	defer l.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, _ := l.Accept()
		accepted <- conn
	}()

	client, err = net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	server = <-accepted
	if server == nil {
		_ = client.Close()
		t.Fatalf("Accept() failed")
	}

	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})
	return client, server
}
