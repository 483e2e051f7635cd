package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ValentinKolb/dSync/lib/store"
)

// --------------------------------------------------------------------------
// Shards
// --------------------------------------------------------------------------

// Well known shard ids. The coordinator endpoint serves ShardCoordinator,
// every shared library endpoint serves ShardLibrary.
const (
	ShardCoordinator uint64 = 1
	ShardLibrary     uint64 = 2
)

// ErrTransport is wrapped by every error that is caused by the transport layer
// (connection refused, connection reset, timeouts, unexpected status codes, ...).
var ErrTransport = errors.New("transport error")

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type" msgpack:"msg_type"`

	// General fields
	Key    string            `json:"key,omitempty" msgpack:"key,omitempty"`       // Used for: kv key, lock name, value set name, keyword name, library name
	Value  string            `json:"value,omitempty" msgpack:"value,omitempty"`   // Used for: kv set (request), kv get / vs get / keyword (response)
	Caller string            `json:"caller,omitempty" msgpack:"caller,omitempty"` // Used for: lock and value set operations
	Tags   []string          `json:"tags,omitempty" msgpack:"tags,omitempty"`     // Used for: value set tags, keyword args, keyword names
	Data   map[string]string `json:"data,omitempty" msgpack:"data,omitempty"`     // Used for: acquired value set (response)
	Port   uint64            `json:"port,omitempty" msgpack:"port,omitempty"`     // Used for: import library (response)

	// Response only fields
	Ok   bool   `json:"ok,omitempty" msgpack:"ok,omitempty"`     // Used for: lock acquire responses
	Code uint64 `json:"code,omitempty" msgpack:"code,omitempty"` // store.RetCode of the error, 0 if no error
	Err  string `json:"err,omitempty" msgpack:"err,omitempty"`   // Empty if no error, otherwise contains the error message
}

// setError stores err in the message. Domain errors keep their return code.
func (m *Message) setError(err error) *Message {
	if err == nil {
		return m
	}
	var se *store.Error
	if errors.As(err, &se) {
		m.Code = uint64(se.Code)
		m.Err = se.Msg
	} else {
		m.Code = uint64(store.RetCInternalError)
		m.Err = err.Error()
	}
	return m
}

// AsError rebuilds the error carried by a response message.
// It returns nil if the message does not carry an error.
func (m *Message) AsError() error {
	if m.Err == "" && m.Code == 0 {
		return nil
	}
	code := store.RetCode(m.Code)
	if code == store.RetCSuccess {
		code = store.RetCInternalError
	}
	return store.NewError(code, m.Err)
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewSetRequest creates a new set_parallel_value_for_key request
func NewSetRequest(key, value string) *Message {
	return &Message{
		MsgType: MsgTKVSet,
		Key:     key,
		Value:   value,
	}
}

// NewSetResponse creates a new set_parallel_value_for_key response
func NewSetResponse(err error) *Message {
	return (&Message{MsgType: MsgTKVSet}).setError(err)
}

// NewGetRequest creates a new get_parallel_value_for_key request
func NewGetRequest(key string) *Message {
	return &Message{
		MsgType: MsgTKVGet,
		Key:     key,
	}
}

// NewGetResponse creates a new get_parallel_value_for_key response
func NewGetResponse(value string, err error) *Message {
	return (&Message{MsgType: MsgTKVGet, Value: value}).setError(err)
}

// NewAcquireLockRequest creates a new acquire_lock request
func NewAcquireLockRequest(name, caller string) *Message {
	return &Message{
		MsgType: MsgTLCKAcquire,
		Key:     name,
		Caller:  caller,
	}
}

// NewAcquireLockResponse creates a new acquire_lock response
func NewAcquireLockResponse(ok bool, err error) *Message {
	return (&Message{MsgType: MsgTLCKAcquire, Ok: ok}).setError(err)
}

// NewReleaseLockRequest creates a new release_lock request
func NewReleaseLockRequest(name, caller string) *Message {
	return &Message{
		MsgType: MsgTLCKRelease,
		Key:     name,
		Caller:  caller,
	}
}

// NewReleaseLockResponse creates a new release_lock response
func NewReleaseLockResponse(err error) *Message {
	return (&Message{MsgType: MsgTLCKRelease}).setError(err)
}

// NewReleaseLocksRequest creates a new release_locks request
func NewReleaseLocksRequest(caller string) *Message {
	return &Message{
		MsgType: MsgTLCKReleaseAll,
		Caller:  caller,
	}
}

// NewReleaseLocksResponse creates a new release_locks response
func NewReleaseLocksResponse(err error) *Message {
	return (&Message{MsgType: MsgTLCKReleaseAll}).setError(err)
}

// NewReleaseAllLocksRequest creates a request that drops every lock level held by the caller
func NewReleaseAllLocksRequest(caller string) *Message {
	return &Message{
		MsgType: MsgTLCKReleaseAllLevels,
		Caller:  caller,
	}
}

// NewReleaseAllLocksResponse creates the response for NewReleaseAllLocksRequest
func NewReleaseAllLocksResponse(err error) *Message {
	return (&Message{MsgType: MsgTLCKReleaseAllLevels}).setError(err)
}

// NewAcquireValueSetRequest creates a new acquire_value_set request
func NewAcquireValueSetRequest(caller string, tags []string) *Message {
	return &Message{
		MsgType: MsgTVSAcquire,
		Caller:  caller,
		Tags:    tags,
	}
}

// NewAcquireValueSetResponse creates a new acquire_value_set response.
// An empty name without error means "all matching sets are busy".
func NewAcquireValueSetResponse(name string, data map[string]string, err error) *Message {
	return (&Message{MsgType: MsgTVSAcquire, Key: name, Data: data}).setError(err)
}

// NewReleaseValueSetRequest creates a new release_value_set request
func NewReleaseValueSetRequest(caller string) *Message {
	return &Message{
		MsgType: MsgTVSRelease,
		Caller:  caller,
	}
}

// NewReleaseValueSetResponse creates a new release_value_set response
func NewReleaseValueSetResponse(err error) *Message {
	return (&Message{MsgType: MsgTVSRelease}).setError(err)
}

// NewDisableValueSetRequest creates a new disable_value_set request
func NewDisableValueSetRequest(name, caller string) *Message {
	return &Message{
		MsgType: MsgTVSDisable,
		Key:     name,
		Caller:  caller,
	}
}

// NewDisableValueSetResponse creates a new disable_value_set response
func NewDisableValueSetResponse(err error) *Message {
	return (&Message{MsgType: MsgTVSDisable}).setError(err)
}

// NewGetValueFromSetRequest creates a new get_value_from_set request
func NewGetValueFromSetRequest(key, caller string) *Message {
	return &Message{
		MsgType: MsgTVSGet,
		Key:     key,
		Caller:  caller,
	}
}

// NewGetValueFromSetResponse creates a new get_value_from_set response
func NewGetValueFromSetResponse(value string, err error) *Message {
	return (&Message{MsgType: MsgTVSGet, Value: value}).setError(err)
}

// NewImportLibraryRequest creates a new import_shared_library request
func NewImportLibraryRequest(name string) *Message {
	return &Message{
		MsgType: MsgTLIBImport,
		Key:     name,
	}
}

// NewImportLibraryResponse creates a new import_shared_library response
func NewImportLibraryResponse(port uint64, err error) *Message {
	return (&Message{MsgType: MsgTLIBImport, Port: port}).setError(err)
}

// NewRunKeywordRequest creates a request that runs a keyword of a shared library
func NewRunKeywordRequest(keyword string, args []string) *Message {
	return &Message{
		MsgType: MsgTLIBRun,
		Key:     keyword,
		Tags:    args,
	}
}

// NewRunKeywordResponse creates the response for NewRunKeywordRequest
func NewRunKeywordResponse(value string, err error) *Message {
	return (&Message{MsgType: MsgTLIBRun, Value: value}).setError(err)
}

// NewKeywordsRequest creates a request that lists the keywords of a shared library
func NewKeywordsRequest() *Message {
	return &Message{
		MsgType: MsgTLIBKeywords,
	}
}

// NewKeywordsResponse creates the response for NewKeywordsRequest
func NewKeywordsResponse(names []string, err error) *Message {
	return (&Message{MsgType: MsgTLIBKeywords, Tags: names}).setError(err)
}

// NewErrorResponse creates a new error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Code:    uint64(store.RetCInternalError),
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Message Types
// --------------------------------------------------------------------------

// MessageType represents the type of message.
type MessageType uint8

// Message type constants
const (
	MsgTUnknown MessageType = iota

	// Key-value operations
	MsgTKVSet // set_parallel_value_for_key
	MsgTKVGet // get_parallel_value_for_key

	// Lock operations
	MsgTLCKAcquire          // acquire_lock
	MsgTLCKRelease          // release_lock
	MsgTLCKReleaseAll       // release_locks
	MsgTLCKReleaseAllLevels // release_all_locks

	// Value set operations
	MsgTVSAcquire // acquire_value_set
	MsgTVSRelease // release_value_set
	MsgTVSDisable // disable_value_set
	MsgTVSGet     // get_value_from_set

	// Shared library operations
	MsgTLIBImport   // import_shared_library
	MsgTLIBRun      // run_keyword
	MsgTLIBKeywords // get_keyword_names

	// Control messages
	MsgTError
	MsgTSuccess
)

var msgTypeNames = map[MessageType]string{
	MsgTKVSet:               "set_parallel_value_for_key",
	MsgTKVGet:               "get_parallel_value_for_key",
	MsgTLCKAcquire:          "acquire_lock",
	MsgTLCKRelease:          "release_lock",
	MsgTLCKReleaseAll:       "release_locks",
	MsgTLCKReleaseAllLevels: "release_all_locks",
	MsgTVSAcquire:           "acquire_value_set",
	MsgTVSRelease:           "release_value_set",
	MsgTVSDisable:           "disable_value_set",
	MsgTVSGet:               "get_value_from_set",
	MsgTLIBImport:           "import_shared_library",
	MsgTLIBRun:              "run_keyword",
	MsgTLIBKeywords:         "get_keyword_names",
	MsgTError:               "error",
	MsgTSuccess:             "success",
}

// String returns the wire method name of a MessageType.
func (t MessageType) String() string {
	if name, ok := msgTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	for msgType, name := range msgTypeNames {
		if name == s {
			*t = msgType
			return nil
		}
	}
	if s == "unknown" {
		*t = MsgTUnknown
		return nil
	}
	return fmt.Errorf("unknown message type: %s", s)
}
