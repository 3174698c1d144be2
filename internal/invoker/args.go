package invoker

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// BuildArgumentSequence returns the arguments for cfg in emission order:
// positional arguments, then enabled flags, then non-blank switches as --name=value.
// Bulk inputs come first for tools that parse greedily.
func BuildArgumentSequence(cfg ToolConfig) []string {
	out := make([]string, 0, len(cfg.Arguments)+len(cfg.Flags)+len(cfg.Switches))
	out = append(out, cfg.Arguments...)
	for _, f := range cfg.Flags {
		if f.Enabled {
			out = append(out, f.Name)
		}
	}
	for _, s := range cfg.Switches {
		if strings.TrimSpace(s.Value) == "" {
			continue
		}
		out = append(out, "--"+switchName(s.Name)+"="+s.Value)
	}
	return out
}

// Payload is what actually reaches the process: either the argument sequence
// itself or a single reference to a response file holding it.
type Payload struct {
	Args         []string
	ResponseFile string
}

// Cleanup removes the response file, if any. Safe to call more than once.
func (p Payload) Cleanup() error {
	if p.ResponseFile == "" {
		return nil
	}
	if err := os.Remove(p.ResponseFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// MaterializeArguments turns args into a Payload. With UseResponseFile set the
// arguments are written one per line to a fresh temp file; the caller owns the
// file and must call Payload.Cleanup.
func MaterializeArguments(args []string, cfg ToolConfig) (Payload, error) {
	if !cfg.UseResponseFile {
		return Payload{Args: append([]string(nil), args...)}, nil
	}
	for _, a := range args {
		if strings.ContainsAny(a, "\r\n") {
			return Payload{}, fmt.Errorf("argument %q cannot be written to a response file: contains a line break", a)
		}
	}
	f, err := os.CreateTemp(cfg.ResponseFileDir, "toolrun-*.rsp")
	if err != nil {
		return Payload{}, fmt.Errorf("create response file: %w", err)
	}
	// The child may run elsewhere, so it gets an absolute path.
	path := absPath(f.Name())
	var content strings.Builder
	for _, a := range args {
		content.WriteString(a)
		content.WriteByte('\n')
	}
	if _, err := f.WriteString(content.String()); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return Payload{}, fmt.Errorf("write response file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return Payload{}, fmt.Errorf("close response file: %w", err)
	}
	return Payload{Args: []string{cfg.responsePrefix() + path}, ResponseFile: path}, nil
}
