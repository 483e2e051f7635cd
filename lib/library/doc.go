// Package library defines shared keyword libraries.
//
// A library is a set of named keywords with string arguments and a string
// result. Libraries are registered by name in a Registry. The shared library
// broker (rpc/server) instantiates a registered library once per run and
// serves it on its own endpoint, workers that run outside a parallel run
// instantiate the library locally instead.
//
// FuncLibrary builds a library from plain Go functions, the libraries shipped
// with dsync live in the builtin sub package.
package library
