package serializer

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"

	"github.com/ValentinKolb/dSync/rpc/common"
	"github.com/vmihailenco/msgpack/v5"
)

var errEmptyPayload = errors.New("empty payload")

// codecSerializerImpl implements the IRPCSerializer interface on top of a
// generic marshal/unmarshal pair
type codecSerializerImpl struct {
	marshal   func(v any) ([]byte, error)
	unmarshal func(b []byte, v any) error
}

// NewJSONSerializer creates a new serializer using json encoding.
// Useful when debugging the traffic between workers and the coordinator.
func NewJSONSerializer() IRPCSerializer {
	return &codecSerializerImpl{marshal: json.Marshal, unmarshal: json.Unmarshal}
}

// NewMsgpackSerializer creates a new serializer using the MessagePack format
func NewMsgpackSerializer() IRPCSerializer {
	return &codecSerializerImpl{marshal: msgpack.Marshal, unmarshal: msgpack.Unmarshal}
}

// NewGOBSerializer creates a new serializer using Go's gob format.
// Every message carries its own type description, so payloads are large.
func NewGOBSerializer() IRPCSerializer {
	return &codecSerializerImpl{
		marshal: func(v any) ([]byte, error) {
			var buf bytes.Buffer
			if err := gob.NewEncoder(&buf).Encode(v); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
		unmarshal: func(b []byte, v any) error {
			return gob.NewDecoder(bytes.NewReader(b)).Decode(v)
		},
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (c *codecSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	return c.marshal(&msg)
}

func (c *codecSerializerImpl) Deserialize(b []byte, msg *common.Message) error {
	if len(b) == 0 {
		return errEmptyPayload
	}
	*msg = common.Message{}
	return c.unmarshal(b, msg)
}
