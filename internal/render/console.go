// Package render turns invocation output and results into terminal text.
package render

import (
	"io"
	"sync"

	"toolrun/internal/invoker"
)

// ConsoleSink relays the child's lines verbatim: stdout lines to Out, stderr
// lines to Err. It is safe to use as an invoker line handler.
type ConsoleSink struct {
	Out io.Writer
	Err io.Writer

	mu sync.Mutex
}

func NewConsoleSink(out, errOut io.Writer) *ConsoleSink {
	return &ConsoleSink{Out: out, Err: errOut}
}

// Line writes one line followed by a newline.
func (s *ConsoleSink) Line(line invoker.Line) {
	if s == nil {
		return
	}
	w := s.Out
	if line.Stream == invoker.StreamStderr && s.Err != nil {
		w = s.Err
	}
	if w == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(w, line.Text+"\n")
}
