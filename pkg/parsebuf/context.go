package parsebuf

import "context"

// ContextSource is the suspension-capable counterpart of io.Reader: one read
// attempt into p that completes when at least one byte is available, the
// source is exhausted (return 0, io.EOF), or an error occurs. The read must
// honor ctx: when ctx ends first, return ctx.Err() (or an error wrapping it)
// without discarding bytes that have not been delivered yet.
//
// Implementations must not return (0, nil).
type ContextSource interface {
	ReadContext(ctx context.Context, p []byte) (int, error)
}

// SourceFunc adapts a function to the ContextSource interface.
type SourceFunc func(ctx context.Context, p []byte) (int, error)

// ReadContext calls f.
func (f SourceFunc) ReadContext(ctx context.Context, p []byte) (int, error) {
	return f(ctx, p)
}

// ContextReader is the context-aware adapter session. It runs the same parse
// loop as Reader over the same buffer management, but its refill step is a
// cancellation point: while a refill is pending, control stays with the Go
// scheduler and ParseContext returns early if ctx ends.
//
// Cancellation leaves the session in a well-defined state: bytes already
// committed to the buffer stay committed, so the session can be reused with
// a fresh context or discarded. The parser itself is synchronous and is
// never interrupted mid-invocation.
//
// Like Reader, a ContextReader is single-owner: one ParseContext call in
// flight at a time, no cross-goroutine sharing.
type ContextReader struct {
	src     ContextSource
	buf     Buffer
	minRead int
	err     error // deferred source error, replayed on the next refill
}

// NewContextReader wraps src in a context-aware session.
func NewContextReader(src ContextSource, opts ...Option) *ContextReader {
	cfg := newConfig(opts)
	return &ContextReader{
		src:     src,
		buf:     Buffer{buf: make([]byte, cfg.size), max: cfg.max},
		minRead: cfg.minRead,
	}
}

// Buffered returns the number of bytes read from the source but not yet
// consumed by a successful parse.
func (r *ContextReader) Buffered() int {
	return r.buf.Len()
}

// Reset discards all buffered bytes and any deferred source error, and
// points the session at a new source, keeping the buffer allocation.
func (r *ContextReader) Reset(src ContextSource) {
	r.src = src
	r.err = nil
	r.buf.Reset()
}

func (r *ContextReader) fill(ctx context.Context, p []byte) (int, error) {
	if r.err != nil {
		err := r.err
		r.err = nil
		return 0, err
	}
	n, err := r.src.ReadContext(ctx, p)
	if n > 0 {
		if err != nil {
			r.err = err
		}
		return n, nil
	}
	return 0, err
}

// ParseContext drives fn against the session until it produces a value,
// fails, the input ends, or ctx ends during a refill. Outcomes match Parse,
// with one addition: cancellation surfaces as a *ReadError wrapping
// ctx.Err().
func ParseContext[T any](ctx context.Context, r *ContextReader, fn Parser[T]) (T, error) {
	return parseNext(ctx, &r.buf, r.minRead, r.fill, fn)
}
