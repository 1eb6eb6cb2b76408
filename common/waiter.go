package common

import "sync"

// Waiter is a counting barrier over N independent completions. The
// callback fires exactly once, when Done has been called N times. If
// one of the expected completions never fires, the barrier never opens;
// callers own that guarantee.
type Waiter struct {
	mu    sync.Mutex
	count int
	done  func()
}

// NewWaiter creates a barrier expecting n completions. With n <= 0 the
// callback fires immediately.
func NewWaiter(n int, done func()) *Waiter {
	w := &Waiter{
		count: n,
		done:  done,
	}
	if n <= 0 {
		w.fire()
	}
	return w
}

// Done records one completion, firing the callback on the last.
func (w *Waiter) Done() {
	w.mu.Lock()
	w.count--
	fire := w.count == 0
	w.mu.Unlock()

	if fire {
		w.fire()
	}
}

func (w *Waiter) fire() {
	if w.done != nil {
		w.done()
	}
}
