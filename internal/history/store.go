// Package history keeps a JSONL record of finished invocations.
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"toolrun/internal/invoker"
)

// Entry is one finished invocation.
type Entry struct {
	ID         string    `json:"id"`
	Tool       string    `json:"tool"`
	Path       string    `json:"path,omitempty"`
	Args       []string  `json:"args,omitempty"`
	Outcome    string    `json:"outcome"`
	ExitCode   int       `json:"exit_code"`
	Started    time.Time `json:"started"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
}

// FromResult converts an invocation result into a history entry.
func FromResult(res invoker.Result) Entry {
	e := Entry{
		ID:         res.ID,
		Tool:       res.ExecutableName,
		Path:       res.Path,
		Args:       append([]string(nil), res.Args...),
		Outcome:    res.Outcome.String(),
		ExitCode:   res.ExitCode,
		Started:    res.Started,
		DurationMS: res.Duration.Milliseconds(),
	}
	if res.Err != nil {
		e.Error = res.Err.Error()
	}
	return e
}

type Store struct {
	Path string
	mu   sync.Mutex
}

func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".toolrun", "history.jsonl"), nil
}

func NewDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return &Store{Path: path}, nil
}

func (s *Store) ensureDir() error {
	if s == nil || strings.TrimSpace(s.Path) == "" {
		return errors.New("history store path is empty")
	}
	return os.MkdirAll(filepath.Dir(s.Path), 0o755)
}

func (s *Store) Append(entry Entry) error {
	if s == nil {
		return errors.New("history store is nil")
	}
	if strings.TrimSpace(entry.ID) == "" {
		return errors.New("history entry has no id")
	}
	if err := s.ensureDir(); err != nil {
		return err
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(data, '\n'))
	return err
}

// Load returns every readable entry in file order. Malformed lines are skipped.
func (s *Store) Load() ([]Entry, error) {
	if s == nil {
		return nil, errors.New("history store is nil")
	}
	if strings.TrimSpace(s.Path) == "" {
		return nil, errors.New("history store path is empty")
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var out []Entry
	for {
		raw, tooLong, readErr := readRecord(r)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, readErr
		}
		if line := strings.TrimSpace(string(raw)); !tooLong && line != "" {
			var e Entry
			if err := json.Unmarshal([]byte(line), &e); err == nil && strings.TrimSpace(e.ID) != "" {
				out = append(out, e)
			}
		}
		if readErr != nil {
			return out, nil
		}
	}
}

// maxRecordBytes caps a single history line; longer lines are discarded.
const maxRecordBytes = 1 << 20

// readRecord reads one newline-terminated record. Oversized records are
// consumed and reported with tooLong set so the caller can skip them.
func readRecord(r *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > maxRecordBytes {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return line, tooLong, err
	}
}

// Recent returns the last n entries, newest first. n <= 0 returns all of them.
func (s *Store) Recent(n int) ([]Entry, error) {
	all, err := s.Load()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	out := make([]Entry, len(all))
	for i, e := range all {
		out[len(all)-1-i] = e
	}
	return out, nil
}
