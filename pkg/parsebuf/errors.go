package parsebuf

import "errors"

// ErrBufferFull is returned when a single logical unit would grow the buffer
// past the limit set with WithMaxBufferSize. It usually means the stream is
// corrupt or hostile (for example a framed length far larger than any valid
// unit), so the session should be discarded.
var ErrBufferFull = errors.New("parsebuf: logical unit exceeds buffer limit")

// ReadError wraps an error reported by the underlying source while refilling
// the buffer. It keeps source failures distinguishable from parser failures:
// the parser's own errors are returned bare, while anything the source
// produced (including context cancellation in a ContextReader) arrives
// inside a ReadError.
//
// Truncation is the one exception: a source that reports a clean end of
// input mid-unit yields io.ErrUnexpectedEOF, and one that ends exactly on a
// unit boundary yields io.EOF, both without wrapping.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return "parsebuf: read: " + e.Err.Error()
}

// Unwrap returns the source's error for errors.Is and errors.As.
func (e *ReadError) Unwrap() error {
	return e.Err
}
