package library

// ILibrary is a keyword library that can be shared between workers.
// A shared library is instantiated once on the coordinator, every worker talks
// to the same instance, so its state is shared across the whole run.
type ILibrary interface {
	// Keywords returns the names of all keywords of the library
	Keywords() []string
	// RunKeyword runs the named keyword with the given arguments and returns its result
	RunKeyword(name string, args []string) (string, error)
}

// Factory creates a new library instance
type Factory func() (ILibrary, error)
