package base

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
)

const (
	// frameHeaderSize is shard id (8) + request id (8) + payload length (4)
	frameHeaderSize = 20
	// maxFrameSize bounds the payload of a single frame. Coordinator messages
	// are small, a larger length means a corrupt or foreign stream.
	maxFrameSize = 16 << 20
)

// frameHeader precedes every payload on a stream connection (all big endian)
type frameHeader struct {
	shardID   uint64
	requestID uint64
	length    uint32
}

func (h frameHeader) put(b []byte) {
	binary.BigEndian.PutUint64(b[0:8], h.shardID)
	binary.BigEndian.PutUint64(b[8:16], h.requestID)
	binary.BigEndian.PutUint32(b[16:20], h.length)
}

func parseFrameHeader(b []byte) frameHeader {
	return frameHeader{
		shardID:   binary.BigEndian.Uint64(b[0:8]),
		requestID: binary.BigEndian.Uint64(b[8:16]),
		length:    binary.BigEndian.Uint32(b[16:20]),
	}
}

// writeFrame writes header and payload with a single vectored write
func writeFrame(conn net.Conn, shardID uint64, requestID uint64, data []byte) error {
	if len(data) > maxFrameSize {
		return fmt.Errorf("frame of %d bytes exceeds limit of %d bytes", len(data), maxFrameSize)
	}

	var header [frameHeaderSize]byte
	frameHeader{shardID: shardID, requestID: requestID, length: uint32(len(data))}.put(header[:])

	b := net.Buffers{header[:], data}
	_, err := b.WriteTo(conn)
	return err
}

// readFrame reads the next frame. The payload is read into buf if it is large
// enough, the returned slice is only valid until buf is reused.
func readFrame(conn net.Conn, buf []byte) (uint64, uint64, []byte, error) {
	if len(buf) < frameHeaderSize {
		buf = make([]byte, frameHeaderSize)
	}

	if _, err := io.ReadFull(conn, buf[:frameHeaderSize]); err != nil {
		return 0, 0, nil, err
	}
	h := parseFrameHeader(buf)

	if h.length > maxFrameSize {
		return 0, 0, nil, fmt.Errorf("frame of %d bytes exceeds limit of %d bytes", h.length, maxFrameSize)
	}
	if h.length == 0 {
		return h.shardID, h.requestID, []byte{}, nil
	}

	if len(buf) < int(h.length) {
		buf = make([]byte, h.length)
	}
	if _, err := io.ReadFull(conn, buf[:h.length]); err != nil {
		return 0, 0, nil, err
	}

	return h.shardID, h.requestID, buf[:h.length], nil
}
