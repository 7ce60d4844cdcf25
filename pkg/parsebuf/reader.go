package parsebuf

import (
	"context"
	"io"
)

const (
	defaultBufferSize = 4096
	defaultMinRead    = 512

	// How many consecutive zero-byte, nil-error reads we tolerate from a
	// misbehaving io.Reader before giving up with io.ErrNoProgress.
	maxEmptyReads = 100
)

type config struct {
	size    int
	max     int
	minRead int
}

// Option configures a Reader or ContextReader at construction time.
type Option func(*config)

// WithBufferSize sets the initial buffer capacity. The default is 4096
// bytes. The buffer still grows on demand; this only sizes the first
// allocation.
func WithBufferSize(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.size = n
		}
	}
}

// WithMaxBufferSize caps buffer growth at n bytes. A parse whose logical
// unit cannot fit within the cap fails with ErrBufferFull instead of growing
// without bound. The default is no limit.
func WithMaxBufferSize(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.max = n
		}
	}
}

// WithMinRead sets the floor on how much writable space is reserved before
// each refill, so that parsers returning bare ErrIncomplete without a size
// hint still trigger reasonably sized reads. The floor is opportunistic: a
// buffer cap narrower than it only limits the reservation, it does not fail
// the parse. The default is 512.
func WithMinRead(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.minRead = n
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{size: defaultBufferSize, minRead: defaultMinRead}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.max > 0 && cfg.size > cfg.max {
		cfg.size = cfg.max
	}
	return cfg
}

// Reader is the blocking adapter session: it owns a Buffer and refills it
// from an io.Reader, blocking the calling goroutine inside Read until data,
// end of input, or an error arrives. Use Parse to pull logical units off it.
//
// A Reader is single-owner. Only one Parse call may be in flight at a time
// and the session must not be used from multiple goroutines concurrently.
type Reader struct {
	src     io.Reader
	buf     Buffer
	minRead int
	err     error // deferred source error, replayed on the next refill
}

// NewReader wraps src in a blocking session.
func NewReader(src io.Reader, opts ...Option) *Reader {
	cfg := newConfig(opts)
	return &Reader{
		src:     src,
		buf:     Buffer{buf: make([]byte, cfg.size), max: cfg.max},
		minRead: cfg.minRead,
	}
}

// Buffered returns the number of bytes read from the source but not yet
// consumed by a successful parse.
func (r *Reader) Buffered() int {
	return r.buf.Len()
}

// Reset discards all buffered bytes and any deferred source error, and
// points the session at a new source, keeping the buffer allocation.
func (r *Reader) Reset(src io.Reader) {
	r.src = src
	r.err = nil
	r.buf.Reset()
}

// fill performs one refill attempt into p. io.Reader is allowed to return
// bytes and an error from the same call; in that case the bytes are
// delivered now and the error is deferred to the next refill, so committed
// data is never lost to an early error return.
func (r *Reader) fill(_ context.Context, p []byte) (int, error) {
	if r.err != nil {
		err := r.err
		r.err = nil
		return 0, err
	}
	for i := 0; i < maxEmptyReads; i++ {
		n, err := r.src.Read(p)
		if n > 0 {
			if err != nil {
				r.err = err
			}
			return n, nil
		}
		if err != nil {
			return 0, err
		}
	}
	return 0, io.ErrNoProgress
}

// Parse drives fn against the session until it produces a value, fails, or
// the input ends.
//
// The result is one of:
//   - (value, nil): fn reported Done; its consumed bytes are retired and
//     remaining buffered bytes serve the next Parse call.
//   - (_, err) where err is fn's own error: fn rejected the input. No
//     further reads were attempted.
//   - (_, io.EOF): the source ended cleanly on a unit boundary (nothing
//     buffered, fn still wanted input).
//   - (_, io.ErrUnexpectedEOF): the source ended mid-unit, leaving a
//     truncated prefix in the buffer.
//   - (_, *ReadError): the source failed; Unwrap exposes its error.
//   - (_, ErrBufferFull): the unit exceeds the configured buffer limit.
//
// Parse is a function rather than a method because Go methods cannot
// introduce the value type parameter.
func Parse[T any](r *Reader, fn Parser[T]) (T, error) {
	return parseNext(context.Background(), &r.buf, r.minRead, r.fill, fn)
}
