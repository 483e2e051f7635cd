// Package serializer encodes coordinator messages for the wire.
//
// Implementations:
//
//   - binary: hand-written codec. A flag word marks which Message fields are
//     present, only those are written. Smallest and fastest, use it when all
//     workers are dsync clients.
//
//   - msgpack: MessagePack via vmihailenco/msgpack, compact and readable by
//     non Go workers.
//
//   - json: slowest, but easy to read when debugging the traffic between
//     workers and the coordinator (e.g. with the http transport).
//
//   - gob: Go's gob format. Each message carries its type description, so it is
//     the largest of all. Kept for compatibility.
//
// json, msgpack and gob share one implementation on top of a marshal/unmarshal
// pair. Deserialize always resets the target message and rejects empty payloads.
// All serializers are stateless and safe for concurrent use. ByName resolves
// the names accepted by the --serializer flag.
package serializer
