package render

import (
	"fmt"
	"strings"
	"time"

	"toolrun/internal/invoker"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const maxTailLines = 20

var (
	dim       = lipgloss.NewStyle().Faint(true)
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Bold(true)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#CC0000")).Bold(true)
	toolStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
)

// SummaryOptions controls the final block.
type SummaryOptions struct {
	Width int
	// ShowTail appends the captured stderr tail for failed invocations. Leave it
	// off when the lines were already relayed live.
	ShowTail bool
}

// Summary renders the terminal result of an invocation.
func Summary(res invoker.Result, opts SummaryOptions) string {
	width := opts.Width
	if width <= 0 {
		width = 80
	}

	icon, iconStyle := "✓", okStyle
	if !res.Succeeded() {
		icon, iconStyle = "✗", errStyle
	}
	name := res.ExecutableName
	if name == "" {
		name = "tool"
	}
	header := iconStyle.Render(icon) + " " + toolStyle.Render(name) + " " + dim.Render(statusText(res))

	lines := []string{header}
	for _, d := range detailLines(res, width-4) {
		lines = append(lines, dim.Render("  └ ")+dim.Render(d))
	}
	if opts.ShowTail && !res.Succeeded() {
		tail := res.Stderr
		if strings.TrimSpace(tail) == "" {
			tail = res.Stdout
		}
		for _, l := range lastLines(wrapAndTruncate(tail, width-4, 0), maxTailLines) {
			lines = append(lines, "    "+l)
		}
	}
	return strings.Join(lines, "\n")
}

func statusText(res invoker.Result) string {
	switch res.Outcome {
	case invoker.OutcomeSuccess:
		return "passed"
	case invoker.OutcomeToolFailure:
		return fmt.Sprintf("failed (exit %d)", res.ExitCode)
	case invoker.OutcomeToolNotFound:
		return "not found"
	case invoker.OutcomeTimedOut:
		return "timed out"
	case invoker.OutcomeCancelled:
		return "cancelled"
	case invoker.OutcomeLaunchError:
		return "could not start"
	default:
		return res.Outcome.String()
	}
}

func detailLines(res invoker.Result, width int) []string {
	var out []string
	if res.Path != "" {
		out = append(out, wrapAndTruncate("command: "+CommandLine(res.Path, res.Args), width, 4)...)
	}
	if res.Duration > 0 {
		out = append(out, "duration: "+res.Duration.Round(time.Millisecond).String())
	}
	if res.Err != nil {
		out = append(out, wrapAndTruncate("error: "+res.Err.Error(), width, 4)...)
	}
	if res.StdoutTruncated || res.StderrTruncated {
		out = append(out, "output: captured tail only")
	}
	return out
}

func lastLines(lines []string, n int) []string {
	if n > 0 && len(lines) > n {
		return lines[len(lines)-n:]
	}
	return lines
}

func wrapAndTruncate(text string, width int, maxLines int) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	if width <= 0 {
		width = 80
	}
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if raw == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapLineWords(raw, width)...)
		if maxLines > 0 && len(lines) >= maxLines {
			return lines[:maxLines]
		}
	}
	return lines
}

func wrapLineWords(line string, width int) []string {
	if width <= 0 || runewidth.StringWidth(line) <= width {
		return []string{line}
	}
	var out []string
	cur := ""
	for _, word := range strings.Fields(line) {
		if cur == "" {
			cur = word
			continue
		}
		if runewidth.StringWidth(cur)+1+runewidth.StringWidth(word) <= width {
			cur += " " + word
			continue
		}
		out = append(out, cur)
		cur = word
	}
	if cur != "" {
		out = append(out, cur)
	}
	if len(out) == 0 {
		return []string{line}
	}
	return out
}
