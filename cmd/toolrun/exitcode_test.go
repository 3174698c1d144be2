package main

import (
	"testing"

	"toolrun/internal/invoker"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		res  invoker.Result
		want int
	}{
		{res: invoker.Result{Outcome: invoker.OutcomeSuccess}, want: 0},
		{res: invoker.Result{Outcome: invoker.OutcomeToolFailure, ExitCode: 3}, want: 3},
		{res: invoker.Result{Outcome: invoker.OutcomeToolFailure}, want: 1},
		{res: invoker.Result{Outcome: invoker.OutcomeToolNotFound, ExitCode: -1}, want: exitNotFound},
		{res: invoker.Result{Outcome: invoker.OutcomeTimedOut, ExitCode: -1}, want: exitTimedOut},
		{res: invoker.Result{Outcome: invoker.OutcomeCancelled, ExitCode: -1}, want: exitCancelled},
		{res: invoker.Result{Outcome: invoker.OutcomeLaunchError, ExitCode: -1}, want: exitLaunchError},
	}
	for _, tc := range cases {
		if got := exitCode(tc.res); got != tc.want {
			t.Fatalf("exitCode(%s) = %d, want %d", tc.res.Outcome, got, tc.want)
		}
	}
}
