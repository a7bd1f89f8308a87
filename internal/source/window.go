// Package source exposes an input byte stream through a resizable sliding
// window and decodes it into code points.
//
// Two kinds of sources are supported:
//
//   - seekable sources (files): the window is capped at 64 KiB and reloaded
//     from the requested position whenever a read falls outside of it;
//   - non-seekable sources (pipes, network, console): the window only grows,
//     newly read bytes are appended and nothing is ever discarded.
package source

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"
)

// EOF is returned by Read and Peek once the stream is exhausted. It lies
// outside the Unicode range, so it never collides with a decoded code point.
const EOF = int(utf8.MaxRune) + 1

const (
	minBufferLength = 1024
	maxBufferLength = minBufferLength * 64
)

// Window is a positional view over a byte stream.
type Window struct {
	buf      []byte
	bufStart int // absolute position of buf[0]
	bufLen   int // valid bytes in buf
	fileLen  int // known stream length, grows for non-seekable sources
	bufPos   int // read position inside buf

	seeker io.ReadSeeker // nil for non-seekable sources
	stream io.Reader     // nil for seekable sources
	done   bool          // stream returned io.EOF
	err    error
}

// NewWindow wraps r. Readers that implement io.ReadSeeker and can actually
// seek (regular files, bytes.Reader) are treated as seekable; everything else,
// including pipes that fail to seek, is buffered as an append-only stream.
func NewWindow(r io.Reader) (*Window, error) {
	w := &Window{}

	if rs, ok := r.(io.ReadSeeker); ok {
		if n, err := rs.Seek(0, io.SeekEnd); err == nil {
			w.seeker = rs
			w.fileLen = int(n)
			w.bufLen = min(w.fileLen, maxBufferLength)
			w.buf = make([]byte, max(w.bufLen, minBufferLength))
			if w.fileLen == 0 {
				return w, nil
			}
			w.bufStart = math.MaxInt // nothing buffered yet
			if err := w.SetPos(0); err != nil {
				return nil, err
			}
			return w, nil
		}
	}

	w.stream = r
	w.buf = make([]byte, minBufferLength)
	return w, nil
}

// Seekable reports whether the window can reload arbitrary positions.
func (w *Window) Seekable() bool {
	return w.seeker != nil
}

// Len returns the currently known length of the stream. For non-seekable
// sources this grows as bytes are read.
func (w *Window) Len() int {
	return w.fileLen
}

// Err returns the first fatal error hit by Read or Peek.
func (w *Window) Err() error {
	return w.err
}

// Read returns the next byte, or EOF.
func (w *Window) Read() int {
	if w.bufPos < w.bufLen {
		b := w.buf[w.bufPos]
		w.bufPos++
		return int(b)
	}

	if pos := w.Pos(); pos < w.fileLen {
		// shift the window so that it starts at pos
		if err := w.SetPos(pos); err != nil {
			w.fail(err)
			return EOF
		}
		if w.bufPos < w.bufLen {
			b := w.buf[w.bufPos]
			w.bufPos++
			return int(b)
		}
		return EOF
	}

	if w.stream != nil && w.readChunk() > 0 {
		b := w.buf[w.bufPos]
		w.bufPos++
		return int(b)
	}

	return EOF
}

// Peek returns the next byte without consuming it.
func (w *Window) Peek() int {
	pos := w.Pos()
	ch := w.Read()
	if err := w.SetPos(pos); err != nil {
		w.fail(err)
		return EOF
	}
	return ch
}

// Pos returns the absolute position of the next byte to be read.
func (w *Window) Pos() int {
	return w.bufStart + w.bufPos
}

// SetPos moves the read position to n. For non-seekable sources a position
// past the known length blocks until enough bytes arrived or the stream ends.
func (w *Window) SetPos(n int) error {
	if n >= w.fileLen && w.stream != nil {
		for n >= w.fileLen && w.readChunk() > 0 {
		}
	}

	if n < 0 || n > w.fileLen {
		return fatal("seek", n, ErrOutOfBounds)
	}

	if n >= w.bufStart && n < w.bufStart+w.bufLen {
		w.bufPos = n - w.bufStart
		return nil
	}

	if w.seeker != nil {
		if _, err := w.seeker.Seek(int64(n), io.SeekStart); err != nil {
			return fatal("seek", n, fmt.Errorf("%w: %v", ErrUnreadable, err))
		}
		read, err := io.ReadFull(w.seeker, w.buf)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return fatal("read", n, fmt.Errorf("%w: %v", ErrUnreadable, err))
		}
		w.bufLen = read
		w.bufStart = n
		w.bufPos = 0
		return nil
	}

	if n < w.bufStart {
		// a stream cannot be rewound past what is buffered
		return fatal("seek", n, ErrOutOfBounds)
	}

	// n == fileLen: park at the end of the stream
	w.bufPos = w.fileLen - w.bufStart
	return nil
}

// Slice returns the bytes in [begin, end) regardless of the current window
// position, which is restored before returning.
func (w *Window) Slice(begin, end int) (string, error) {
	if begin > end {
		return "", fatal("slice", begin, ErrOutOfBounds)
	}

	old := w.Pos()
	if err := w.SetPos(end); err != nil {
		return "", err
	}
	if err := w.SetPos(begin); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(end - begin)
	for w.Pos() < end {
		ch := w.Read()
		if ch == EOF {
			break
		}
		sb.WriteByte(byte(ch))
	}

	if err := w.SetPos(old); err != nil {
		return "", err
	}
	return sb.String(), w.err
}

// readChunk appends the next chunk of a non-seekable stream, doubling the
// buffer when it is full. It returns the number of bytes read.
func (w *Window) readChunk() int {
	if w.done || w.err != nil {
		return 0
	}

	free := len(w.buf) - w.bufLen
	if free == 0 {
		grown := make([]byte, w.bufLen*2)
		copy(grown, w.buf[:w.bufLen])
		w.buf = grown
		free = w.bufLen
	}

	for {
		n, err := w.stream.Read(w.buf[w.bufLen : w.bufLen+free])
		if n > 0 {
			w.bufLen += n
			w.fileLen = w.bufLen
			if errors.Is(err, io.EOF) {
				w.done = true
			}
			return n
		}
		if errors.Is(err, io.EOF) {
			w.done = true
			return 0
		}
		if err != nil {
			w.fail(fatal("read", w.fileLen, fmt.Errorf("%w: %v", ErrUnreadable, err)))
			return 0
		}
	}
}

func (w *Window) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}
