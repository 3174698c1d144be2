package invoker

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

const maxLineChunk = 64 * 1024

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu      sync.Mutex
	buf     []byte
	max     int
	dropped int64
}

func newTailBuffer(max int) *tailBuffer {
	if max <= 0 {
		max = DefaultMaxCaptureBytes
	}
	return &tailBuffer{max: max}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(p)
	if n >= t.max {
		t.dropped += int64(len(t.buf) + n - t.max)
		t.buf = append(t.buf[:0], p[n-t.max:]...)
		return n, nil
	}
	if len(t.buf)+n > t.max {
		drop := len(t.buf) + n - t.max
		t.dropped += int64(drop)
		t.buf = append(t.buf[:0], t.buf[drop:]...)
	}
	t.buf = append(t.buf, p...)
	return n, nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}

func (t *tailBuffer) Truncated() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dropped > 0
}

// readLines copies r into capture and calls fn for every line as it arrives.
// Lines longer than maxLineChunk are delivered in several chunks. It returns
// when r reports EOF or any other error.
func readLines(r io.Reader, capture io.Writer, fn func(string)) error {
	br := bufio.NewReaderSize(io.TeeReader(r, capture), maxLineChunk)
	for {
		line, _, err := br.ReadLine()
		if err == nil {
			fn(string(line))
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
}
