package tui

import (
	"errors"

	"toolrun/internal/invoker"

	tea "github.com/charmbracelet/bubbletea"
)

// Result 返回 TUI 运行后的必要信息。
type Result struct {
	Invocation  *invoker.Result
	Interrupted bool
}

// Run 封装 Bubble Tea 入口，阻塞到调用结束或订阅关闭。
func Run(opts Options) (Result, error) {
	programOptions := []tea.ProgramOption{}
	if !opts.CopyableOutput {
		programOptions = append(programOptions, tea.WithAltScreen())
	}
	program := tea.NewProgram(New(opts), programOptions...)
	m, err := program.Run()
	if err != nil {
		return Result{}, err
	}
	tuiModel, ok := m.(*Model)
	if !ok {
		return Result{}, errors.New("unexpected tui model")
	}
	return Result{
		Invocation:  tuiModel.Result(),
		Interrupted: tuiModel.Interrupted(),
	}, nil
}
