// Package uiloop provides the single execution context that owns all
// presentation-visible state. Remote calls complete on arbitrary
// goroutines; their completions are marshaled onto the loop before any
// observable state is touched, so no locking is needed on that state.
package uiloop

// Dispatcher runs functions on the context that owns observable state.
type Dispatcher interface {
	Dispatch(fn func())
}

// Loop is a serial executor. Everything dispatched to it runs on the
// single goroutine inside Run, in dispatch order.
type Loop struct {
	fns  chan func()
	done chan struct{}
}

// New creates a stopped loop. Dispatch may be called before Run; the
// functions queue until the loop starts.
func New() *Loop {
	return &Loop{
		fns:  make(chan func(), 256),
		done: make(chan struct{}),
	}
}

// Dispatch enqueues fn for execution on the loop goroutine. After Stop
// the function is dropped; late completions from in-flight remote
// calls have nothing left to update.
func (l *Loop) Dispatch(fn func()) {
	select {
	case <-l.done:
	case l.fns <- fn:
	}
}

// Run executes dispatched functions until Stop is called. It must be
// called exactly once.
func (l *Loop) Run() {
	for {
		select {
		case <-l.done:
			return
		case fn := <-l.fns:
			fn()
		}
	}
}

// Stop terminates the loop. Safe to call once.
func (l *Loop) Stop() {
	close(l.done)
}

// Immediate is a Dispatcher that runs functions inline on the calling
// goroutine. For tests and single-goroutine programs only.
type Immediate struct{}

func (Immediate) Dispatch(fn func()) { fn() }
