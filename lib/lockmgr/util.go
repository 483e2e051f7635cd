package lockmgr

import (
	"github.com/ValentinKolb/dSync/lib/store"
)

// validateCaller rejects empty caller ids, an empty owner would make
// every lock releasable by every anonymous caller
func validateCaller(caller string) error {
	if caller == "" {
		return store.NewError(store.RetCInvalidOperation, "caller id must not be empty")
	}
	return nil
}
