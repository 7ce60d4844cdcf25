package parsebuf

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// fillFunc is the abstract "fetch more bytes" capability the parse loop is
// instantiated over: once for Reader's blocking refill and once for
// ContextReader's cancellable one. Both variants share this single loop so
// buffer management can never diverge between them.
type fillFunc func(ctx context.Context, p []byte) (int, error)

// parseNext is the incremental parse loop. Each iteration hands the
// unconsumed window to fn and branches on its outcome: Done retires the
// consumed bytes and returns the value, a hard failure returns immediately,
// and Incomplete reserves space (honoring the parser's size hint) and
// refills before re-invoking fn on the grown window.
//
// Re-invoking fn from the start of the window on every retry is what keeps
// parsers stateless: compaction bounds the re-scanned region by the size of
// the unit being assembled, not by the length of the stream.
func parseNext[T any](ctx context.Context, buf *Buffer, minRead int, fill fillFunc, fn Parser[T]) (T, error) {
	var zero T
	for {
		window := buf.Window()
		value, n, err := fn(window)
		switch {
		case err == nil:
			if n < 0 || n > len(window) {
				panic(fmt.Sprintf("parsebuf: parser consumed %d bytes from a %d-byte window", n, len(window)))
			}
			buf.Advance(n)
			return value, nil

		case errors.Is(err, ErrIncomplete):
			// The parser's hint is a hard requirement; the minimum read
			// granularity is only opportunistic. Under a buffer cap the
			// generous reservation may fail while the hint still fits.
			need := 1
			var inc *IncompleteError
			if errors.As(err, &inc) && inc.Need > need {
				need = inc.Need
			}
			soft := minRead
			if soft < need {
				soft = need
			}
			if rerr := buf.Reserve(soft); rerr != nil {
				if rerr = buf.Reserve(need); rerr != nil {
					return zero, rerr
				}
			}
			n, rerr := fill(ctx, buf.Tail())
			if n > 0 {
				buf.Commit(n)
				continue
			}
			if rerr == nil {
				rerr = io.ErrNoProgress
			}
			if errors.Is(rerr, io.EOF) {
				if buf.Len() == 0 {
					return zero, io.EOF
				}
				return zero, io.ErrUnexpectedEOF
			}
			return zero, &ReadError{Err: rerr}

		default:
			return zero, err
		}
	}
}
