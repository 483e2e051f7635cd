// Package cmd implements the command-line interface of dSync. It provides
// a hierarchical command structure for running the coordinator and for
// acting as a worker from shell scripts.
//
// The package is organized into several subpackages:
//
//   - serve: Starts the coordinator server
//   - kv: Commands for the shared key/value store (set, get, perf)
//   - lock: Commands for locks (acquire, release, release-all)
//   - valueset: Commands for value sets (acquire, get, release, disable)
//   - library: Commands for shared libraries (import, run)
//   - run: Runs a command under one of the synchronisation recipes
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set with an environment variable DSYNC_<FLAG>
// (e.g. DSYNC_CALLER_ID, DSYNC_URI, DSYNC_QUEUE_INDEX). See dsync -help for a
// list of all commands.
package cmd
