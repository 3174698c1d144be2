package main

import "toolrun/internal/invoker"

const (
	exitUsage       = 2
	exitTimedOut    = 124
	exitLaunchError = 126
	exitNotFound    = 127
	exitCancelled   = 130
)

// exitCode relays the tool's own status when it ran to completion.
func exitCode(res invoker.Result) int {
	switch res.Outcome {
	case invoker.OutcomeSuccess:
		return 0
	case invoker.OutcomeToolFailure:
		if res.ExitCode == 0 {
			return 1
		}
		return res.ExitCode
	case invoker.OutcomeToolNotFound:
		return exitNotFound
	case invoker.OutcomeTimedOut:
		return exitTimedOut
	case invoker.OutcomeCancelled:
		return exitCancelled
	default:
		return exitLaunchError
	}
}
