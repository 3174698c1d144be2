package invoker

import (
	"fmt"
	"time"
)

// Outcome classifies how an invocation ended.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeToolFailure
	OutcomeToolNotFound
	OutcomeTimedOut
	OutcomeCancelled
	OutcomeLaunchError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeToolFailure:
		return "tool_failure"
	case OutcomeToolNotFound:
		return "tool_not_found"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeLaunchError:
		return "launch_error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// State is a step of the invocation lifecycle.
type State string

const (
	StateValidating   State = "validating"
	StateResolving    State = "resolving"
	StateBuilding     State = "building"
	StateLaunching    State = "launching"
	StateRunning      State = "running"
	StateCompleted    State = "completed"
	StateNotFound     State = "not_found"
	StateTimedOut     State = "timed_out"
	StateCancelled    State = "cancelled"
	StateLaunchFailed State = "launch_failed"
)

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateNotFound, StateTimedOut, StateCancelled, StateLaunchFailed:
		return true
	}
	return false
}

// Stream identifies the child output a line came from.
type Stream string

const (
	StreamStdout Stream = "stdout"
	StreamStderr Stream = "stderr"
)

// Line is one line (or chunk of an overlong line) of child output, without
// its terminator.
type Line struct {
	Stream Stream
	Text   string
}

// Result is produced exactly once per invocation.
type Result struct {
	ID             string
	ExecutableName string
	Path           string
	Args           []string

	ExitCode int
	Outcome  Outcome
	// Err carries the cause for ToolNotFound and LaunchError outcomes.
	Err error

	Stdout          string
	Stderr          string
	StdoutTruncated bool
	StderrTruncated bool

	Started  time.Time
	Duration time.Duration
}

// Succeeded reports whether the tool ran and exited with code 0.
func (r Result) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}

// Summary is a one-line description suitable for build logs.
func (r Result) Summary() string {
	switch r.Outcome {
	case OutcomeSuccess:
		return fmt.Sprintf("%s succeeded", r.ExecutableName)
	case OutcomeToolFailure:
		return fmt.Sprintf("%s failed with exit code %d", r.ExecutableName, r.ExitCode)
	case OutcomeTimedOut:
		return fmt.Sprintf("%s timed out after %s", r.ExecutableName, r.Duration.Round(time.Millisecond))
	case OutcomeCancelled:
		return fmt.Sprintf("%s was cancelled", r.ExecutableName)
	default:
		if r.Err != nil {
			return r.Err.Error()
		}
		return fmt.Sprintf("%s: %s", r.ExecutableName, r.Outcome)
	}
}

// State is the terminal lifecycle state that produces the outcome.
func (o Outcome) State() State {
	switch o {
	case OutcomeSuccess, OutcomeToolFailure:
		return StateCompleted
	case OutcomeToolNotFound:
		return StateNotFound
	case OutcomeTimedOut:
		return StateTimedOut
	case OutcomeCancelled:
		return StateCancelled
	default:
		return StateLaunchFailed
	}
}
