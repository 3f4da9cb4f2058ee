package core

import (
	"time"
)

// TestReporter is the subset of testing.TB the typed API reports failures through.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Timer is what delays wait on. Tests substitute a fake to avoid sleeping.
type Timer interface {
	After(d time.Duration) <-chan time.Time
}

type realTimer struct{}

func (realTimer) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
