package builtin

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/ValentinKolb/dSync/lib/library"
)

// NewCounter creates a library with a single shared counter.
//
// Keywords:
//   - Increment [by]: adds by (default 1) and returns the new value
//   - Get Count: returns the current value
//   - Reset Count: sets the counter to zero
func NewCounter() (library.ILibrary, error) {
	var (
		mu    sync.Mutex
		count int64
	)

	return library.NewFuncLibrary(map[string]library.KeywordFunc{
		"Increment": func(args ...string) (string, error) {
			by := int64(1)
			if len(args) > 0 {
				n, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return "", fmt.Errorf("invalid increment %q: %w", args[0], err)
				}
				by = n
			}

			mu.Lock()
			defer mu.Unlock()
			count += by
			return strconv.FormatInt(count, 10), nil
		},
		"Get Count": func(...string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			return strconv.FormatInt(count, 10), nil
		},
		"Reset Count": func(...string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			count = 0
			return "0", nil
		},
	}), nil
}
