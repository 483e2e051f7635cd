package serializer

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/ValentinKolb/dSync/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format.
//
// Layout: [1 byte MsgType][2 byte flags][present fields in flag order].
// Strings are length prefixed (uint32), lists and maps are count prefixed (uint32).
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasKey    uint16 = 1 << 0
	hasValue  uint16 = 1 << 1
	hasCaller uint16 = 1 << 2
	hasTags   uint16 = 1 << 3
	hasData   uint16 = 1 << 4
	hasPort   uint16 = 1 << 5
	hasOk     uint16 = 1 << 6
	hasCode   uint16 = 1 << 7
	hasErr    uint16 = 1 << 8
)

const binaryHeaderSize = 3

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	result := make([]byte, binaryHeaderSize, b.sizeBytes(msg))

	// Write message type
	result[0] = byte(msg.MsgType)

	var flags uint16

	if msg.Key != "" {
		flags |= hasKey
		result = appendString(result, msg.Key)
	}
	if msg.Value != "" {
		flags |= hasValue
		result = appendString(result, msg.Value)
	}
	if msg.Caller != "" {
		flags |= hasCaller
		result = appendString(result, msg.Caller)
	}
	if len(msg.Tags) > 0 {
		flags |= hasTags
		result = binary.BigEndian.AppendUint32(result, uint32(len(msg.Tags)))
		for _, tag := range msg.Tags {
			result = appendString(result, tag)
		}
	}
	if len(msg.Data) > 0 {
		flags |= hasData
		// sorted keys keep the encoding deterministic
		keys := make([]string, 0, len(msg.Data))
		for k := range msg.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		result = binary.BigEndian.AppendUint32(result, uint32(len(keys)))
		for _, k := range keys {
			result = appendString(result, k)
			result = appendString(result, msg.Data[k])
		}
	}
	if msg.Port > 0 {
		flags |= hasPort
		result = binary.BigEndian.AppendUint64(result, msg.Port)
	}
	if msg.Ok {
		flags |= hasOk
		result = append(result, 1)
	}
	if msg.Code > 0 {
		flags |= hasCode
		result = binary.BigEndian.AppendUint64(result, msg.Code)
	}
	if msg.Err != "" {
		flags |= hasErr
		result = appendString(result, msg.Err)
	}

	// Set flags after knowing which fields are present
	binary.BigEndian.PutUint16(result[1:3], flags)

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < binaryHeaderSize {
		return fmt.Errorf("data too short for message header")
	}

	*msg = common.Message{MsgType: common.MessageType(data[0])}
	flags := binary.BigEndian.Uint16(data[1:3])
	r := &binaryReader{data: data, pos: binaryHeaderSize}

	var err error
	if flags&hasKey != 0 {
		if msg.Key, err = r.string("key"); err != nil {
			return err
		}
	}
	if flags&hasValue != 0 {
		if msg.Value, err = r.string("value"); err != nil {
			return err
		}
	}
	if flags&hasCaller != 0 {
		if msg.Caller, err = r.string("caller"); err != nil {
			return err
		}
	}
	if flags&hasTags != 0 {
		count, err := r.uint32("tags count")
		if err != nil {
			return err
		}
		msg.Tags = make([]string, 0, min(int(count), len(data)))
		for i := uint32(0); i < count; i++ {
			tag, err := r.string("tag")
			if err != nil {
				return err
			}
			msg.Tags = append(msg.Tags, tag)
		}
	}
	if flags&hasData != 0 {
		count, err := r.uint32("data count")
		if err != nil {
			return err
		}
		msg.Data = make(map[string]string, min(int(count), len(data)))
		for i := uint32(0); i < count; i++ {
			k, err := r.string("data key")
			if err != nil {
				return err
			}
			v, err := r.string("data value")
			if err != nil {
				return err
			}
			msg.Data[k] = v
		}
	}
	if flags&hasPort != 0 {
		if msg.Port, err = r.uint64("port"); err != nil {
			return err
		}
	}
	if flags&hasOk != 0 {
		if r.pos+1 > len(data) {
			return fmt.Errorf("data too short for Ok flag")
		}
		msg.Ok = data[r.pos] != 0
		r.pos++
	}
	if flags&hasCode != 0 {
		if msg.Code, err = r.uint64("code"); err != nil {
			return err
		}
	}
	if flags&hasErr != 0 {
		if msg.Err, err = r.string("error"); err != nil {
			return err
		}
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	size := binaryHeaderSize

	if msg.Key != "" {
		size += 4 + len(msg.Key)
	}
	if msg.Value != "" {
		size += 4 + len(msg.Value)
	}
	if msg.Caller != "" {
		size += 4 + len(msg.Caller)
	}
	if len(msg.Tags) > 0 {
		size += 4
		for _, tag := range msg.Tags {
			size += 4 + len(tag)
		}
	}
	if len(msg.Data) > 0 {
		size += 4
		for k, v := range msg.Data {
			size += 8 + len(k) + len(v)
		}
	}
	if msg.Port > 0 {
		size += 8
	}
	if msg.Ok {
		size += 1
	}
	if msg.Code > 0 {
		size += 8
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err)
	}

	return size
}

func appendString(buf []byte, s string) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

// binaryReader reads length prefixed fields and reports truncated input
type binaryReader struct {
	data []byte
	pos  int
}

func (r *binaryReader) uint32(field string) (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("data too short for %s", field)
	}
	v := binary.BigEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *binaryReader) uint64(field string) (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("data too short for %s", field)
	}
	v := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *binaryReader) string(field string) (string, error) {
	n, err := r.uint32(field + " length")
	if err != nil {
		return "", err
	}
	if r.pos+int(n) > len(r.data) || int(n) < 0 {
		return "", fmt.Errorf("data too short for %s data", field)
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}
