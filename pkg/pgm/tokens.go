package pgm

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"unicode"
)

// tokenReader splits a netpbm stream into whitespace separated tokens,
// dropping '#' comments that run to the end of the line.
type tokenReader struct {
	r   *bufio.Reader
	buf []byte
}

func newTokenReader(r io.Reader) *tokenReader {
	return &tokenReader{r: bufio.NewReader(r)}
}

func (t *tokenReader) next() (string, error) {
	t.buf = t.buf[:0]
	for {
		b, err := t.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && len(t.buf) > 0 {
				return string(t.buf), nil
			}
			return "", err
		}
		switch {
		case b == '#':
			// a comment also ends the token in front of it
			if err := t.skipLine(); err != nil && (len(t.buf) == 0 || !errors.Is(err, io.EOF)) {
				return "", err
			}
			if len(t.buf) > 0 {
				return string(t.buf), nil
			}
		case unicode.IsSpace(rune(b)):
			if len(t.buf) > 0 {
				return string(t.buf), nil
			}
		default:
			t.buf = append(t.buf, b)
		}
	}
}

// skipLine discards everything up to and including the next newline, however
// long the line is.
func (t *tokenReader) skipLine() error {
	for {
		_, err := t.r.ReadSlice('\n')
		if !errors.Is(err, bufio.ErrBufferFull) {
			return err
		}
	}
}

func (t *tokenReader) nextInt() (int, error) {
	tok, err := t.next()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(tok)
}
