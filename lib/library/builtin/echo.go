package builtin

import (
	"strings"

	"github.com/ValentinKolb/dSync/lib/library"
)

// NewEcho creates a stateless library that is handy for connectivity checks.
//
// Keywords:
//   - Echo [args...]: returns the arguments joined by a space
func NewEcho() (library.ILibrary, error) {
	return library.NewFuncLibrary(map[string]library.KeywordFunc{
		"Echo": func(args ...string) (string, error) {
			return strings.Join(args, " "), nil
		},
	}), nil
}
