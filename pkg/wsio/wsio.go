// Package wsio exposes a websocket connection as a plain byte stream.
//
// A websocket is message-framed while parsebuf sessions consume a contiguous
// byte stream, so Source flattens the payloads of successive data messages
// (binary or text) into one stream. A normal closure ends the stream with
// io.EOF; any other failure is reported as-is.
//
// Source implements both io.Reader, for use with parsebuf.NewReader, and
// parsebuf.ContextSource, for use with parsebuf.NewContextReader. The
// websocket package supports at most one concurrent reader per connection,
// and Source inherits that constraint: it is single-owner and must not be
// used from multiple goroutines at once.
package wsio

import (
	"context"
	"io"

	"github.com/gorilla/websocket"

	"github.com/haivivi/parsebuf/pkg/parsebuf"
)

var (
	_ io.Reader              = (*Source)(nil)
	_ parsebuf.ContextSource = (*Source)(nil)
)

type readResult struct {
	data []byte
	err  error
}

// Source adapts a *websocket.Conn to the byte-stream contract. Create one
// with NewSource and hand it to a parsebuf session; do not read from the
// connection directly afterwards.
type Source struct {
	conn     *websocket.Conn
	leftover []byte          // unread tail of the current message
	pending  chan readResult // in-flight read left behind by a cancelled ReadContext
}

// NewSource wraps conn. The connection's read side now belongs to the
// Source; the caller keeps ownership of the write side and of Close.
func NewSource(conn *websocket.Conn) *Source {
	return &Source{conn: conn}
}

// next blocks for the next non-empty data message. Normal and going-away
// closures map to io.EOF.
func (s *Source) next() ([]byte, error) {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, io.EOF
			}
			return nil, err
		}
		if len(data) == 0 {
			continue
		}
		return data, nil
	}
}

func (s *Source) deliver(p []byte, data []byte) int {
	n := copy(p, data)
	s.leftover = data[n:]
	return n
}

// Read streams the remainder of the current message, then advances to the
// next one, blocking until data arrives or the peer closes.
func (s *Source) Read(p []byte) (int, error) {
	if len(s.leftover) > 0 {
		return s.deliver(p, s.leftover), nil
	}
	if s.pending != nil {
		res := <-s.pending
		s.pending = nil
		if res.err != nil {
			return 0, res.err
		}
		return s.deliver(p, res.data), nil
	}
	data, err := s.next()
	if err != nil {
		return 0, err
	}
	return s.deliver(p, data), nil
}

// ReadContext behaves like Read but returns ctx.Err() when ctx ends first.
// The underlying websocket read cannot be interrupted, so it keeps running
// on a background goroutine; its result is held and delivered by the next
// Read or ReadContext call, ensuring cancellation never loses a message.
func (s *Source) ReadContext(ctx context.Context, p []byte) (int, error) {
	if len(s.leftover) > 0 {
		return s.deliver(p, s.leftover), nil
	}
	if s.pending == nil {
		ch := make(chan readResult, 1)
		s.pending = ch
		go func() {
			data, err := s.next()
			ch <- readResult{data: data, err: err}
		}()
	}
	select {
	case res := <-s.pending:
		s.pending = nil
		if res.err != nil {
			return 0, res.err
		}
		return s.deliver(p, res.data), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
