//go:build windows

package invoker

import "errors"

// PTYLauncher is unavailable on Windows; Start always fails with a launch error.
type PTYLauncher struct {
	Rows uint16
	Cols uint16
}

func (PTYLauncher) Start(LaunchSpec) (Process, error) {
	return nil, errors.New("pty launch is not supported on windows")
}
