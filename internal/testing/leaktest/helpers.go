// Package leaktest checks that background goroutines, such as session actors
// and worker pools, exit once they are stopped.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	pollInterval   = 10 * time.Millisecond
	defaultTimeout = 2 * time.Second
)

// GoroutineChecker compares the goroutine count against a baseline
type GoroutineChecker struct {
	t       testing.TB
	before  int
	timeout time.Duration
}

// NewGoroutineChecker records the current goroutine count as the baseline
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	return &GoroutineChecker{t: t, before: runtime.NumGoroutine(), timeout: defaultTimeout}
}

// WithTimeout changes how long Check waits for goroutines to exit
func (g *GoroutineChecker) WithTimeout(d time.Duration) *GoroutineChecker {
	g.timeout = d
	return g
}

// Check polls until at most tolerance goroutines above the baseline remain,
// failing the test when the timeout passes first.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()
	if !settle(g.before+tolerance, g.timeout) {
		after := runtime.NumGoroutine()
		g.t.Errorf("goroutine leak: before=%d after=%d leaked=%d tolerance=%d",
			g.before, after, after-g.before, tolerance)
	}
}

// CheckNoGoroutineLeak runs fn and fails when it leaves goroutines behind
func CheckNoGoroutineLeak(t testing.TB, fn func()) {
	t.Helper()
	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}

func settle(target int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		runtime.Gosched()
		if runtime.NumGoroutine() <= target {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(pollInterval)
	}
}
