package parsebuf_test

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/haivivi/parsebuf/pkg/parsebuf"
)

func ExampleParse() {
	// line parses one newline-terminated line, consuming the terminator.
	line := func(window []byte) (string, int, error) {
		i := bytes.IndexByte(window, '\n')
		if i < 0 {
			return "", 0, parsebuf.ErrIncomplete
		}
		return string(window[:i]), i + 1, nil
	}

	r := parsebuf.NewReader(strings.NewReader("alpha\nbeta\n"))
	for {
		s, err := parsebuf.Parse(r, line)
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(s)
	}
	// Output:
	// alpha
	// beta
}

func ExampleNeedMore() {
	// record parses a unit with a one-byte length prefix. Because the full
	// length is known up front, it hints exactly how many bytes are missing.
	record := func(window []byte) ([]byte, int, error) {
		if len(window) < 1 {
			return nil, 0, parsebuf.NeedMore(1)
		}
		n := int(window[0])
		if len(window) < 1+n {
			return nil, 0, parsebuf.NeedMore(1 + n - len(window))
		}
		// The window is only borrowed, so copy the payload out.
		return append([]byte(nil), window[1:1+n]...), 1 + n, nil
	}

	r := parsebuf.NewReader(strings.NewReader("\x05hello"))
	payload, err := parsebuf.Parse(r, record)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s\n", payload)
	// Output:
	// hello
}
