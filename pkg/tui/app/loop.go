package app

import (
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/tokenbar/pkg/filterbar"
)

// drainMsg asks the root model to run the functions queued on the loop.
type drainMsg struct{}

// teaLoop runs filterbar work on the Bubble Tea goroutine. Post queues the
// function and wakes the program with a drainMsg; Update drains the queue in
// FIFO order.
type teaLoop struct {
	mu      sync.Mutex
	queue   []func()
	send    func(tea.Msg)
	waking  bool
	stopped bool
}

var _ filterbar.Loop = (*teaLoop)(nil)

func newTeaLoop() *teaLoop { return &teaLoop{} }

// bind sets the function used to wake the program, normally tea.Program.Send.
// Work posted before bind is delivered with the first wake.
func (l *teaLoop) bind(send func(tea.Msg)) {
	l.mu.Lock()
	l.send = send
	l.mu.Unlock()
	l.wake()
}

// Post implements filterbar.Loop.
func (l *teaLoop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.wake()
}

// Go implements filterbar.Loop.
func (l *teaLoop) Go(work func() func()) {
	go func() {
		if next := work(); next != nil {
			l.Post(next)
		}
	}()
}

// After implements filterbar.Loop.
func (l *teaLoop) After(d time.Duration, fn func()) filterbar.Task {
	t := &loopTask{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.done.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return t
}

// wake sends one drainMsg unless one is already on its way. Send blocks until
// the program reads the message, so it never runs on the caller's goroutine.
func (l *teaLoop) wake() {
	l.mu.Lock()
	if l.send == nil || l.waking || len(l.queue) == 0 {
		l.mu.Unlock()
		return
	}
	l.waking = true
	send := l.send
	l.mu.Unlock()
	go send(drainMsg{})
}

// drain runs queued functions, including ones queued while draining, and
// returns how many ran. It must be called on the program goroutine.
func (l *teaLoop) drain() int {
	ran := 0
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.waking = false
			l.mu.Unlock()
			return ran
		}
		fn := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()
		fn()
		ran++
	}
}

// stop drops queued work and ignores later posts.
func (l *teaLoop) stop() {
	l.mu.Lock()
	l.stopped = true
	l.queue = nil
	l.mu.Unlock()
}

type loopTask struct {
	timer *time.Timer
	done  atomic.Bool
}

// Stop implements filterbar.Task. It reports false once the callback ran or
// the task was stopped before.
func (t *loopTask) Stop() bool {
	if t.timer != nil {
		t.timer.Stop()
	}
	return t.done.CompareAndSwap(false, true)
}
