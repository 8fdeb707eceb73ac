package lifecycle

import (
	"sync"
	"time"
)

// Task is a recurring callback with a cancellation handle.
type Task struct {
	stopCh   chan struct{}
	stopOnce sync.Once
}

// Every spawns a goroutine that calls fn once per period until Stop.
func Every(period time.Duration, fn func()) *Task {
	t := &Task{stopCh: make(chan struct{})}
	ticker := time.NewTicker(period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.stopCh:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return t
}

// Stop cancels the task. It does not wait for an in-flight callback, so it is
// safe to call from inside one. Safe to call multiple times.
func (t *Task) Stop() {
	if t == nil {
		return
	}
	t.stopOnce.Do(func() { close(t.stopCh) })
}
