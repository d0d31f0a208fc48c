package util

import (
	"bufio"
	"errors"
	"io"
	"net"
	"sync"
)

// DefaultBufSize is the initial scan buffer size for a line reader (32 KiB).
const DefaultBufSize = 32 * 1024

// scanBufs recycles reader buffers across #logoff / #login cycles.
var scanBufs = sync.Pool{ //nolint:gochecknoglobals
	New: func() interface{} {
		b := make([]byte, DefaultBufSize)
		return &b
	},
}

// ReadLines calls fn for every newline-terminated line read from r,
// with the line ending (\n or \r\n) removed.  It returns nil when r is
// exhausted cleanly and the scanner error otherwise; a line longer than
// maxLine yields bufio.ErrTooLong.
func ReadLines(r io.Reader, maxLine int, fn func(line string)) error {
	if maxLine <= 0 {
		maxLine = DefaultBufSize
	}
	buf := scanBufs.Get().(*[]byte)
	defer scanBufs.Put(buf)

	// The scanner's limit is the larger of maxLine and cap(b).
	b := (*buf)[:0]
	if maxLine < cap(b) {
		b = b[:0:maxLine]
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(b, maxLine)
	for sc.Scan() {
		fn(sc.Text())
	}
	return sc.Err()
}

// WriteLine writes s and a trailing newline in a single Write so that
// concurrent senders never interleave partial lines on the wire.
func WriteLine(w io.Writer, s string) (int, error) {
	b := make([]byte, 0, len(s)+1)
	b = append(b, s...)
	b = append(b, '\n')
	return w.Write(b)
}

// IsClosed reports whether err is the expected result of reading from
// or writing to a connection that was closed locally or by the peer.
func IsClosed(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	// net.OpError wrapping "use of closed network connection"
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, net.ErrClosed)
	}
	return false
}
