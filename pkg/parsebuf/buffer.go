package parsebuf

import "fmt"

// Buffer is a growable byte buffer with an explicit split between bytes that
// have been read from the source but not yet consumed by a parse, and bytes
// already retired by a successful parse. It maintains two offsets into its
// backing array: r marks the start of unconsumed data and w marks the end of
// valid data, with 0 <= r <= w <= cap at all times.
//
// Buffer is single-owner and not safe for concurrent use: it is mutated in
// place by exactly one in-flight parse call.
type Buffer struct {
	buf []byte // len(buf) is the capacity; buf[r:w] is live data
	r   int    // start of unconsumed data
	w   int    // end of valid data
	max int    // capacity limit; 0 means unlimited
}

// NewBuffer creates a Buffer with the given initial capacity and no growth
// limit.
func NewBuffer(size int) *Buffer {
	if size < 1 {
		size = 1
	}
	return &Buffer{buf: make([]byte, size)}
}

// Window returns the unconsumed bytes as a zero-copy view into the backing
// array. The view is read-only by convention and is invalidated by the next
// call to Reserve or Commit, which may relocate the data.
func (b *Buffer) Window() []byte {
	return b.buf[b.r:b.w]
}

// Tail returns the writable region after the valid data. A source fills
// bytes into it and the caller records them with Commit. Like Window, the
// slice is invalidated by the next Reserve or Commit.
func (b *Buffer) Tail() []byte {
	return b.buf[b.w:]
}

// Len returns the number of unconsumed bytes.
func (b *Buffer) Len() int {
	return b.w - b.r
}

// Cap returns the current capacity of the backing array.
func (b *Buffer) Cap() int {
	return len(b.buf)
}

// Free returns the number of writable bytes available in the tail.
func (b *Buffer) Free() int {
	return len(b.buf) - b.w
}

// Advance retires n unconsumed bytes after a successful parse. It panics if
// n is negative or exceeds Len: overrunning the window is a contract breach
// by the parser, not a recoverable condition.
func (b *Buffer) Advance(n int) {
	if n < 0 || n > b.w-b.r {
		panic(fmt.Sprintf("parsebuf: Advance(%d) with %d bytes buffered", n, b.w-b.r))
	}
	b.r += n
}

// Reserve ensures at least min writable bytes exist after the valid data.
// It first compacts, shifting the unconsumed bytes down to offset zero to
// reclaim the consumed prefix, and only grows the backing array if that is
// still not enough. Growth doubles the capacity or extends to exactly what
// is needed, whichever is larger, keeping total copying amortized linear.
//
// If a growth limit is set and the request cannot be satisfied within it,
// Reserve returns ErrBufferFull and leaves the buffer unchanged apart from
// compaction.
func (b *Buffer) Reserve(min int) error {
	if min < 1 {
		min = 1
	}
	if len(b.buf)-b.w >= min {
		return nil
	}
	if b.r > 0 {
		copy(b.buf, b.buf[b.r:b.w])
		b.w -= b.r
		b.r = 0
		if len(b.buf)-b.w >= min {
			return nil
		}
	}
	need := b.w + min
	grown := 2 * len(b.buf)
	if grown < need {
		grown = need
	}
	if b.max > 0 && grown > b.max {
		if need > b.max {
			return ErrBufferFull
		}
		grown = b.max
	}
	next := make([]byte, grown)
	copy(next, b.buf[:b.w])
	b.buf = next
	return nil
}

// Commit records that n bytes have been written into the tail by the source.
// It panics if n is negative or exceeds Free.
func (b *Buffer) Commit(n int) {
	if n < 0 || n > len(b.buf)-b.w {
		panic(fmt.Sprintf("parsebuf: Commit(%d) with %d writable bytes", n, len(b.buf)-b.w))
	}
	b.w += n
}

// Reset discards all buffered data, keeping the allocation.
func (b *Buffer) Reset() {
	b.r, b.w = 0, 0
}
