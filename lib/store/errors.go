package store

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message. It is shared by all coordination primitives so that
// the code survives the trip over the RPC boundary.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("CoordinationError (code %s): %s", e.Code, e.Msg)
}

// Is reports whether target is an *Error with the same return code.
// This lets errors.Is(err, store.ErrNoMatch) work for errors rebuilt on the client side.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// Errorf creates a new Error with the given code and a formatted message.
func Errorf(code RetCode, format string, args ...interface{}) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// Sentinel errors for use with errors.Is. Only the code is compared.
var (
	ErrInternal          = NewError(RetCInternalError, "internal error")
	ErrUnsupported       = NewError(RetCUnsupportedOperation, "unsupported operation")
	ErrInvalidOperation  = NewError(RetCInvalidOperation, "invalid operation")
	ErrLockNotOwned      = NewError(RetCLockNotOwned, "lock not held by caller")
	ErrAlreadyReserved   = NewError(RetCAlreadyReserved, "caller has already reserved a value set")
	ErrNotConfigured     = NewError(RetCNotConfigured, "no value sets configured")
	ErrNoMatch           = NewError(RetCNoMatch, "no value set matching given tags exists")
	ErrNotReserved       = NewError(RetCNotReserved, "no value set reserved for caller")
	ErrKeyNotFound       = NewError(RetCKeyNotFound, "key not found")
	ErrUnknownValueSet   = NewError(RetCUnknownValueSet, "unknown value set")
	ErrUnknownLibrary    = NewError(RetCUnknownLibrary, "unknown library")
	ErrLibraryNotEnabled = NewError(RetCLibraryNotEnabled, "shared libraries are not enabled")
)

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported.
	RetCInvalidOperation                    // 3: Invalid operation (e.g. missing caller id).
	RetCLockNotOwned                        // 4: Lock does not exist or is owned by someone else.
	RetCAlreadyReserved                     // 5: Caller already holds a value set.
	RetCNotConfigured                       // 6: No value sets are configured.
	RetCNoMatch                             // 7: No value set matches the requested tags.
	RetCNotReserved                         // 8: Caller holds no value set.
	RetCKeyNotFound                         // 9: Key is absent from the reserved value set.
	RetCUnknownValueSet                     // 10: Value set name does not exist.
	RetCUnknownLibrary                      // 11: Library name is not registered.
	RetCLibraryNotEnabled                   // 12: Coordinator has no library broker.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCInvalidOperation:
		return "InvalidOperation"
	case RetCLockNotOwned:
		return "LockNotOwned"
	case RetCAlreadyReserved:
		return "AlreadyReserved"
	case RetCNotConfigured:
		return "NotConfigured"
	case RetCNoMatch:
		return "NoMatch"
	case RetCNotReserved:
		return "NotReserved"
	case RetCKeyNotFound:
		return "KeyNotFound"
	case RetCUnknownValueSet:
		return "UnknownValueSet"
	case RetCUnknownLibrary:
		return "UnknownLibrary"
	case RetCLibraryNotEnabled:
		return "LibraryNotEnabled"
	default:
		return "Unknown"
	}
}
