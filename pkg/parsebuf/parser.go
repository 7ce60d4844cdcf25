package parsebuf

import (
	"errors"
	"fmt"
)

// Parser decodes one logical unit from the front of a byte window.
//
// The window is the session's unconsumed bytes; it is a borrowed view that
// is only valid for the duration of the call, so any retained data must be
// copied out. A parser reports one of three outcomes:
//
//   - Done: return the value, the number of bytes consumed (which must not
//     exceed len(window)), and a nil error.
//   - Incomplete: return an error matching ErrIncomplete, typically built
//     with NeedMore to carry a size hint. The session reads more bytes and
//     invokes the parser again on the grown window.
//   - Failed: return any other error. The bytes present are invalid and no
//     amount of further input can fix them; the error is returned to the
//     caller verbatim and no further reads are attempted.
//
// A parser must be deterministic for a fixed window, because it is re-run
// from the start of the window after every refill. It must not keep progress
// state between invocations.
type Parser[T any] func(window []byte) (value T, n int, err error)

// ErrIncomplete signals that the window does not yet hold a full logical
// unit. Parsers may return it directly when they cannot estimate how many
// bytes are missing, or wrapped with a hint via NeedMore.
var ErrIncomplete = errors.New("parsebuf: incomplete input")

// IncompleteError is an ErrIncomplete with a size hint. Need is the number
// of additional bytes the parser wants beyond the window it was given; the
// session reads at least that much before retrying (subject to the minimum
// read granularity).
type IncompleteError struct {
	Need int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("parsebuf: incomplete input: need %d more bytes", e.Need)
}

// Is reports that an IncompleteError matches ErrIncomplete, so
// errors.Is(err, ErrIncomplete) holds for hinted and unhinted forms alike.
func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete
}

// NeedMore builds the incomplete outcome with a size hint of n additional
// bytes. Parsers that know the full unit length (length-prefixed framing,
// fixed-width records) should prefer it over bare ErrIncomplete so the
// session can size its next read exactly.
func NeedMore(n int) error {
	return &IncompleteError{Need: n}
}
