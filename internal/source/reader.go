package source

import (
	"fmt"
	"io"
)

// Option configures a Reader.
type Option func(*Reader)

// WithUTF8 decodes the input as UTF-8 even when no byte order mark is
// present. Without it, BOM-less input is read one byte per code point.
func WithUTF8() Option {
	return func(r *Reader) {
		r.utf8 = true
	}
}

// Reader turns the bytes of a Window into code points.
type Reader struct {
	w    *Window
	utf8 bool
}

// NewReader wraps an existing window.
func NewReader(w *Window, opts ...Option) *Reader {
	r := &Reader{w: w}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open builds a Window over src and wraps it.
func Open(src io.Reader, opts ...Option) (*Reader, error) {
	w, err := NewWindow(src)
	if err != nil {
		return nil, err
	}
	return NewReader(w, opts...), nil
}

// Window returns the underlying byte window.
func (r *Reader) Window() *Window {
	return r.w
}

// UTF8 reports whether the reader decodes multi-byte sequences.
func (r *Reader) UTF8() bool {
	return r.utf8
}

// ProbeBOM consumes a leading UTF-8 byte order mark and switches the reader
// to UTF-8 mode. Input that does not start with 0xEF is left untouched. A
// 0xEF that is not followed by 0xBB 0xBF is a fatal error.
func (r *Reader) ProbeBOM() (bool, error) {
	start := r.w.Pos()
	if r.w.Read() != 0xEF {
		if err := r.w.SetPos(start); err != nil {
			return false, err
		}
		return false, nil
	}

	b1, b2 := r.w.Read(), r.w.Read()
	if b1 != 0xBB || b2 != 0xBF {
		return false, fatal("bom", start, fmt.Errorf("%w: EF %X %X", ErrBadBOM, b1, b2))
	}

	r.utf8 = true
	return true, nil
}

// Read returns the next code point, or EOF.
func (r *Reader) Read() int {
	ch := r.w.Read()
	if !r.utf8 || ch < 0x80 || ch == EOF {
		return ch
	}

	// resync on the next start byte: 0xxxxxxx or 11xxxxxx
	for ch >= 0x80 && ch&0xC0 != 0xC0 && ch != EOF {
		ch = r.w.Read()
	}
	if ch < 0x80 || ch == EOF {
		return ch
	}

	var n, cp int
	switch {
	case ch&0xF0 == 0xF0:
		n, cp = 3, ch&0x07
	case ch&0xE0 == 0xE0:
		n, cp = 2, ch&0x0F
	default:
		n, cp = 1, ch&0x1F
	}

	for range n {
		c := r.w.Read()
		if c == EOF {
			return EOF
		}
		cp = cp<<6 | c&0x3F
	}
	return cp
}

// Peek returns the next code point without consuming it.
func (r *Reader) Peek() int {
	pos := r.w.Pos()
	ch := r.Read()
	if err := r.w.SetPos(pos); err != nil {
		r.w.fail(err)
		return EOF
	}
	return ch
}

// Pos returns the byte position of the next code point.
func (r *Reader) Pos() int {
	return r.w.Pos()
}

// SetPos moves to a byte position. The position must be the start of a code
// point for decoding to stay aligned.
func (r *Reader) SetPos(n int) error {
	return r.w.SetPos(n)
}

// Slice returns the raw bytes in [begin, end).
func (r *Reader) Slice(begin, end int) (string, error) {
	return r.w.Slice(begin, end)
}

// Err returns the first fatal error encountered while reading.
func (r *Reader) Err() error {
	return r.w.Err()
}
