package invoker

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError 标记在启动前即可发现的配置问题（ConfigInvalid），Invoke 会同步返回它。
type ConfigError struct {
	Field  string
	Reason string
	// Index is the 1-based position within a list field, 0 when not applicable.
	Index int
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid tool config"
	}
	if e.Index > 0 {
		return fmt.Sprintf("invalid tool config: %s[%d]: %s", e.Field, e.Index, e.Reason)
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid tool config: %s: %s", e.Field, e.Reason)
	}
	return "invalid tool config: " + e.Reason
}

func (e *ConfigError) Is(target error) bool {
	_, ok := target.(*ConfigError)
	return ok
}

// IsConfigInvalid 返回错误是否为配置校验失败。
func IsConfigInvalid(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ToolNotFoundError is reported when the executable cannot be resolved.
// Suggestions holds near matches found in the searched directories.
type ToolNotFoundError struct {
	Name        string
	Searched    []string
	Suggestions []string
}

func (e *ToolNotFoundError) Error() string {
	if e == nil {
		return "tool not found"
	}
	msg := fmt.Sprintf("tool %q not found", e.Name)
	if len(e.Searched) == 1 {
		msg += " in " + e.Searched[0]
	}
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}
	return msg
}

func (e *ToolNotFoundError) Is(target error) bool {
	_, ok := target.(*ToolNotFoundError)
	return ok
}

// IsToolNotFound 返回错误是否为可执行文件缺失。
func IsToolNotFound(err error) bool {
	var nf *ToolNotFoundError
	return errors.As(err, &nf)
}
