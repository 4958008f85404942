package loader

// reader.go cleans delimited input before it reaches encoding/csv:
// a leading UTF-8 byte order mark is dropped and invalid UTF-8 bytes are
// replaced with '?'. Both transforms stream; memory use does not grow with
// the file.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// newCleanReader wraps r with BOM removal and UTF-8 sanitizing.
func newCleanReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return &utf8Sanitizer{src: br}
}

// utf8Sanitizer re-encodes its source rune by rune. A rune that does not fit
// in the caller's buffer is held in pending for the next Read.
type utf8Sanitizer struct {
	src     *bufio.Reader
	pending []byte
	err     error
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	n := copy(p, s.pending)
	s.pending = s.pending[n:]

	for n < len(p) {
		if s.err != nil {
			break
		}
		// Return what we have rather than block on the source.
		if n > 0 && s.src.Buffered() == 0 {
			break
		}

		r, size, err := s.src.ReadRune()
		if err != nil {
			s.err = err
			break
		}
		if r == utf8.RuneError && size == 1 {
			r = '?'
		}

		var buf [utf8.UTFMax]byte
		w := utf8.EncodeRune(buf[:], r)
		c := copy(p[n:], buf[:w])
		n += c
		if c < w {
			s.pending = append(s.pending, buf[c:w]...)
		}
	}

	if n > 0 {
		return n, nil
	}
	return 0, s.err
}
