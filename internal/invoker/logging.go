package invoker

import (
	"io"
	"sync"

	"toolrun/internal/logger"
)

// DefaultInvocationLogPath 调用生命周期日志的默认路径。
const DefaultInvocationLogPath = "logs/invocations.log"

var (
	invocationLogMu         sync.Mutex
	invocationLog           = logger.Named("invoker")
	invocationLogConfigured bool
	invocationLogCloser     io.Closer
	invocationLogPath       string
)

// SetupInvocationLog 配置调用专用日志，返回文件 closer 及实际路径。
// 若 logPath 为空，则使用 DefaultInvocationLogPath。多次调用只会在首次生效。
func SetupInvocationLog(logPath string) (io.Closer, string, error) {
	invocationLogMu.Lock()
	defer invocationLogMu.Unlock()

	if invocationLogConfigured {
		return invocationLogCloser, invocationLogPath, nil
	}
	if logPath == "" {
		logPath = DefaultInvocationLogPath
	}

	entry, closer, resolved, err := logger.SetupComponentFile("invoker", logPath)
	invocationLogConfigured = true
	invocationLogPath = resolved
	if err != nil {
		return nil, resolved, err
	}
	if entry != nil {
		invocationLog = entry
	}
	invocationLogCloser = closer
	return closer, resolved, nil
}

// CloseInvocationLog 关闭调用日志文件句柄（如已初始化）。
func CloseInvocationLog() {
	invocationLogMu.Lock()
	defer invocationLogMu.Unlock()
	if invocationLogCloser != nil {
		_ = invocationLogCloser.Close()
		invocationLogCloser = nil
	}
}

func defaultLog() *logger.LogEntry {
	invocationLogMu.Lock()
	defer invocationLogMu.Unlock()
	return invocationLog
}
