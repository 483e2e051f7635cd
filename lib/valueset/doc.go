// Package valueset implements the pool of tagged value sets.
//
// A value set is a named bundle of configuration values (for example the
// credentials of one test user) that is reserved by exactly one worker at a
// time. Workers ask for a set by tags and receive the first free set that
// carries all of them. This lets a pool of parallel workers share a limited
// number of resources without stepping on each other.
//
// Key Components:
//
//   - IValueSetPool: The pool interface (Reserve, Release, Disable, Get).
//     A single mutex guards the pool, reservation order and the two-way
//     uniqueness (one caller per set, one set per caller) need one critical
//     section.
//
//   - Loaders: LoadINI (gopkg.in/ini.v1) and LoadHCL (hashicorp/hcl) read the
//     sets from a resource file, Load picks the loader by file extension.
//
// Reserve distinguishes between a permanent failure (store.ErrNoMatch, no set
// carries the requested tags) and a transient one (all matching sets are taken,
// an empty name without error). Callers poll only on the transient case.
package valueset
