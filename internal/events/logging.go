package events

import (
	"io"

	"toolrun/internal/invoker"
	"toolrun/internal/logger"
)

// DefaultEventLogPath 事件日志的默认路径。
const DefaultEventLogPath = "logs/events.log"

// log 复用全局 logger，标记事件组件。
var log = logger.Named("events")

// StartLogger 订阅 bus 并把每个事件写入独立的组件日志，返回的 channel 在 bus 关闭且日志写完后关闭。
func StartLogger(bus *Bus, path string) (<-chan struct{}, io.Closer) {
	entry, closer := newEventLogger(path)
	sub := bus.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for evt := range sub {
			kind, fields := describe(evt)
			entry.WithField("type", kind).WithFields(fields).Info("event")
		}
	}()
	return done, closer
}

func newEventLogger(path string) (*logger.LogEntry, io.Closer) {
	if path == "" {
		return logger.Named("events"), nil
	}
	entry, closer, _, err := logger.SetupComponentFile("events", path)
	if err != nil {
		log.Warnf("failed to set up events log file (%s): %v", path, err)
		return logger.Named("events"), nil
	}
	return entry, closer
}

func describe(evt any) (string, logger.Fields) {
	switch e := evt.(type) {
	case invoker.StateEvent:
		return "state", logger.Fields{"id": e.ID, "tool": e.Tool, "to": string(e.State)}
	case invoker.StartedEvent:
		return "started", logger.Fields{"id": e.ID, "pid": e.Pid, "path": e.Path, "argc": len(e.Args)}
	case invoker.LineEvent:
		return "line", logger.Fields{"id": e.ID, "stream": string(e.Line.Stream), "text": e.Line.Text}
	case invoker.FinishedEvent:
		return "finished", logger.Fields{
			"id":        e.Result.ID,
			"outcome":   e.Result.Outcome.String(),
			"exit_code": e.Result.ExitCode,
		}
	default:
		return "unknown", logger.Fields{}
	}
}
