package parsebuf

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

// chanSource delivers chunks pushed onto a channel; closing the channel is
// end of input. Test chunks are kept smaller than the session's reserve so a
// chunk never outgrows the destination slice.
type chanSource struct {
	ch chan []byte
}

func (s *chanSource) ReadContext(ctx context.Context, p []byte) (int, error) {
	select {
	case b, ok := <-s.ch:
		if !ok {
			return 0, io.EOF
		}
		return copy(p, b), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func TestParseContext_TokenAcrossChunks(t *testing.T) {
	src := &chanSource{ch: make(chan []byte, 2)}
	src.ch <- []byte("GET")
	src.ch <- []byte(" /x\r\n")
	close(src.ch)

	r := NewContextReader(src)
	got, err := ParseContext(context.Background(), r, tokenSpace)
	if err != nil {
		t.Fatalf("ParseContext error: %v", err)
	}
	if got != "GET" {
		t.Fatalf("ParseContext = %q, want %q", got, "GET")
	}
	if r.Buffered() != 4 {
		t.Fatalf("Buffered() = %d, want 4", r.Buffered())
	}
}

func TestParseContext_TruncatedUnit(t *testing.T) {
	src := &chanSource{ch: make(chan []byte, 1)}
	src.ch <- []byte("AB")
	close(src.ch)

	r := NewContextReader(src)
	if _, err := ParseContext(context.Background(), r, fixed(3)); err != io.ErrUnexpectedEOF {
		t.Fatalf("ParseContext = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestParseContext_CancelKeepsSessionUsable(t *testing.T) {
	src := &chanSource{ch: make(chan []byte, 1)}
	src.ch <- []byte("AA")

	r := NewContextReader(src)

	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(10*time.Millisecond, cancel)
	defer timer.Stop()
	defer cancel()

	// The parser wants 4 bytes; only "AA" ever arrives, so the refill for
	// the remainder blocks until the context is cancelled.
	_, err := ParseContext(ctx, r, fixed(4))
	var re *ReadError
	if !errors.As(err, &re) {
		t.Fatalf("ParseContext = %v, want *ReadError", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ReadError does not wrap context.Canceled: %v", err)
	}
	if r.Buffered() != 2 {
		t.Fatalf("Buffered() = %d, want 2 (committed bytes survive cancellation)", r.Buffered())
	}

	// The session stays usable: deliver the rest and retry with a fresh
	// context.
	src.ch <- []byte("BB")
	close(src.ch)
	got, err := ParseContext(context.Background(), r, fixed(4))
	if err != nil {
		t.Fatalf("ParseContext after cancel error: %v", err)
	}
	if got != "AABB" {
		t.Fatalf("ParseContext after cancel = %q, want %q", got, "AABB")
	}
}

func TestParseContext_MatchesBlockingReader(t *testing.T) {
	payloads := []string{"one", "two", "a third, somewhat longer record"}
	stream := encodeFrames16(payloads)

	blocking := NewReader(bytes.NewReader(stream))
	var fromBlocking []string
	for {
		s, err := Parse(blocking, frame16)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		fromBlocking = append(fromBlocking, s)
	}

	src := &chanSource{ch: make(chan []byte, len(stream))}
	for _, b := range stream {
		src.ch <- []byte{b}
	}
	close(src.ch)
	suspending := NewContextReader(src)
	var fromContext []string
	for {
		s, err := ParseContext(context.Background(), suspending, frame16)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ParseContext error: %v", err)
		}
		fromContext = append(fromContext, s)
	}

	if len(fromBlocking) != len(payloads) || len(fromContext) != len(payloads) {
		t.Fatalf("parsed %d blocking / %d context units, want %d", len(fromBlocking), len(fromContext), len(payloads))
	}
	for i := range payloads {
		if fromBlocking[i] != payloads[i] || fromContext[i] != payloads[i] {
			t.Fatalf("unit %d: blocking=%q context=%q want=%q", i, fromBlocking[i], fromContext[i], payloads[i])
		}
	}
}

func TestParseContext_SourceFunc(t *testing.T) {
	data := []byte("AABB")
	src := SourceFunc(func(ctx context.Context, p []byte) (int, error) {
		if len(data) == 0 {
			return 0, io.EOF
		}
		n := copy(p, data)
		data = data[n:]
		return n, nil
	})

	r := NewContextReader(src)
	for _, want := range []string{"AA", "BB"} {
		got, err := ParseContext(context.Background(), r, fixed(2))
		if err != nil {
			t.Fatalf("ParseContext error: %v", err)
		}
		if got != want {
			t.Fatalf("ParseContext = %q, want %q", got, want)
		}
	}
	if _, err := ParseContext(context.Background(), r, fixed(2)); err != io.EOF {
		t.Fatalf("ParseContext at end = %v, want io.EOF", err)
	}
}
