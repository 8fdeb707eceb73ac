package lifecycle

import (
	"context"
	"log"
	"sync"
	"time"
)

type job struct {
	name string
	fn   func(ctx context.Context) error
}

// writer is the single goroutine that performs every background write.
// Pending key/value pairs coalesce so only the newest value of a key is
// written; journal jobs run in order after each key/value batch.
type writer struct {
	gw      Gateway
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]string
	jobs    []job

	kick     chan struct{}
	flushCh  chan chan struct{}
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newWriter(gw Gateway, timeout time.Duration) *writer {
	w := &writer{
		gw:      gw,
		timeout: timeout,
		pending: make(map[string]string),
		kick:    make(chan struct{}, 1),
		flushCh: make(chan chan struct{}),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.kick:
			w.drain()
		case ack := <-w.flushCh:
			w.drain()
			close(ack)
		case <-w.stopCh:
			w.drain()
			return
		}
	}
}

func (w *writer) enqueue(pairs map[string]string) {
	w.mu.Lock()
	for k, v := range pairs {
		w.pending[k] = v
	}
	w.mu.Unlock()
	w.signal()
}

func (w *writer) enqueueJob(name string, fn func(ctx context.Context) error) {
	w.mu.Lock()
	w.jobs = append(w.jobs, job{name: name, fn: fn})
	w.mu.Unlock()
	w.signal()
}

func (w *writer) signal() {
	select {
	case w.kick <- struct{}{}:
	default:
	}
}

func (w *writer) drain() {
	w.mu.Lock()
	batch, jobs := w.pending, w.jobs
	w.pending, w.jobs = make(map[string]string), nil
	w.mu.Unlock()

	if len(batch) > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		if err := w.gw.MultiSet(ctx, batch); err != nil {
			log.Printf("pea: save state: %v", err)
		}
		cancel()
	}
	for _, j := range jobs {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		if err := j.fn(ctx); err != nil {
			log.Printf("pea: %s: %v", j.name, err)
		}
		cancel()
	}
}

// flush blocks until everything queued before the call has been attempted.
func (w *writer) flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case w.flushCh <- ack:
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close drains the queue and stops the goroutine.
func (w *writer) close(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.stopCh) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
