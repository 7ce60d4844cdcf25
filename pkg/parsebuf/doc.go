// Package parsebuf drives incremental parsers directly against a live byte
// source (socket, pipe, file) without the caller managing buffering, partial
// reads, or "not enough data yet" retries.
//
// A parser is an ordinary synchronous function over a byte window that
// reports one of three outcomes: the value it parsed and how many bytes it
// consumed, "I need more bytes" (via ErrIncomplete or NeedMore), or a hard
// parse failure. The adapter owns a growable buffer, refills it from the
// source whenever the parser reports incomplete, and re-invokes the parser
// against the accumulated bytes until it can decide. Because the parser is
// re-run from the start of the unconsumed window on every retry it needs no
// suspension support of its own, so the same parser function works unmodified
// under both session types.
//
// Two session types share one parse loop:
//
//   - Reader wraps an io.Reader; refills block the calling goroutine.
//   - ContextReader wraps a ContextSource; refills are context-aware and a
//     pending refill can be cancelled without losing buffered bytes.
//
// Successive calls pull successive logical units off the stream, reusing
// bytes already buffered by earlier reads:
//
//	r := parsebuf.NewReader(conn)
//	for {
//		msg, err := parsebuf.Parse(r, decodeMessage)
//		if err == io.EOF {
//			break // clean end of stream on a unit boundary
//		}
//		if err != nil {
//			return err
//		}
//		handle(msg)
//	}
//
// Sessions are single-owner: only one parse call may be in flight at a time
// and a session must not be shared across goroutines without external
// synchronization.
package parsebuf
