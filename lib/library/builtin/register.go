// Package builtin contains the shared libraries shipped with dsync.
package builtin

import (
	"github.com/ValentinKolb/dSync/lib/library"
)

// Register adds all builtin libraries to the registry
func Register(reg *library.Registry) error {
	if err := reg.Register("Counter", NewCounter); err != nil {
		return err
	}
	return reg.Register("Echo", NewEcho)
}

// NewRegistry returns a registry with all builtin libraries
func NewRegistry() *library.Registry {
	reg := library.NewRegistry()
	// cannot fail on an empty registry
	_ = Register(reg)
	return reg
}
