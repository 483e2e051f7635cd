// Package recipes implements the synchronisation recipes built on top of the
// coordination primitives:
//
//   - RunSetupOnce: the first worker reaching a position runs the keyword, all others skip it
//   - RunOnlyOnce: a keyword runs once per run, regardless of the position
//   - RunTeardownOnce: runs at the last level once all earlier queue entries are done
//   - RunOnLastProcess: runs on the last worker of the pool once it is the only one left
//
// Outcomes are recorded in the key/value store under the lock name as
// "PASSED" or "FAILED", so every worker sees the same result.
package recipes
