package invoker

// Publisher receives lifecycle events. events.Bus satisfies it.
type Publisher interface {
	Publish(evt any)
}

// StateEvent is published on every lifecycle transition.
type StateEvent struct {
	ID    string
	State State
	Tool  string
}

// StartedEvent is published once the child process is running.
type StartedEvent struct {
	ID   string
	Path string
	Args []string
	Pid  int
}

// LineEvent carries one line of streamed child output.
type LineEvent struct {
	ID   string
	Line Line
}

// FinishedEvent carries the final result.
type FinishedEvent struct {
	Result Result
}

type nopPublisher struct{}

func (nopPublisher) Publish(any) {}
