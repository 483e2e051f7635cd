package serializer

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/dSync/rpc/common"
)

// IRPCSerializer converts messages to and from their wire representation.
// Client and server of one coordinator must use the same serializer.
type IRPCSerializer interface {
	// Serialize encodes msg
	Serialize(msg common.Message) ([]byte, error)
	// Deserialize decodes b into msg, msg is reset before decoding
	Deserialize(b []byte, msg *common.Message) error
}

// Names lists the names accepted by ByName
var Names = []string{"binary", "json", "gob", "msgpack"}

// ByName returns the serializer with the given name (case-insensitive)
func ByName(name string) (IRPCSerializer, error) {
	switch strings.ToLower(name) {
	case "binary":
		return NewBinarySerializer(), nil
	case "json":
		return NewJSONSerializer(), nil
	case "gob":
		return NewGOBSerializer(), nil
	case "msgpack":
		return NewMsgpackSerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %q (one of %s)", name, strings.Join(Names, ", "))
	}
}
