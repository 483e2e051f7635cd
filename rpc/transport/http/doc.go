// Package http carries RPC requests as HTTP POST bodies.
//
// Client endpoints are URLs (http://host:port), server endpoints are plain
// listen addresses (host:port). Requests are sent to /{shardId}, so a worker
// can reach the coordinator and a shared library with the same client code.
// With several endpoints the client picks one round robin and retries on
// transport errors up to the configured retry count.
//
// HTTP is the default transport of the dsync CLI, it passes proxies and is easy
// to inspect with the json serializer.
package http
