package library

import (
	"sort"
	"strings"

	"github.com/ValentinKolb/dSync/lib/store"
)

// KeywordFunc implements a single keyword
type KeywordFunc func(args ...string) (string, error)

// FuncLibrary is a library built from plain functions.
// Keyword names are matched ignoring case, spaces and underscores, so
// "Get Count", "get_count" and "getcount" name the same keyword.
type FuncLibrary struct {
	names    []string
	keywords map[string]KeywordFunc
}

// NewFuncLibrary creates a library from a map of keyword name to function
func NewFuncLibrary(keywords map[string]KeywordFunc) *FuncLibrary {
	lib := &FuncLibrary{
		keywords: make(map[string]KeywordFunc, len(keywords)),
	}
	for name, fn := range keywords {
		lib.names = append(lib.names, name)
		lib.keywords[NormalizeKeyword(name)] = fn
	}
	sort.Strings(lib.names)
	return lib
}

// --------------------------------------------------------------------------
// Interface Methods (docu see library.ILibrary)
// --------------------------------------------------------------------------

func (l *FuncLibrary) Keywords() []string {
	return append([]string(nil), l.names...)
}

func (l *FuncLibrary) RunKeyword(name string, args []string) (string, error) {
	fn, ok := l.keywords[NormalizeKeyword(name)]
	if !ok {
		return "", store.Errorf(store.RetCKeyNotFound, "no keyword with name %q found", name)
	}
	return fn(args...)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// NormalizeKeyword lower-cases a keyword name and removes spaces and underscores
func NormalizeKeyword(name string) string {
	return strings.NewReplacer(" ", "", "_", "").Replace(strings.ToLower(name))
}
