package streamtask

import (
	"sync"

	"github.com/liboshuai01/streamtask/metrics"
)

// AvailabilityToken is a one-shot completion signal: "the input gate has at
// least one buffer" (§4.5). The gate re-arms by replacing a completed token
// with a fresh one when a poll drains the queue. At most one subscriber is
// ever registered — only the task's default action subscribes — so the token
// is an atomic completed latch plus a single mutex-guarded waiter slot rather
// than a channel, grounded on the state-machine idiom observed in
// joeycumines-go-utilpkg/eventloop's FastState.
type AvailabilityToken struct {
	completedFlag atomicBool
	mu            sync.Mutex
	waiter        func()
}

func newAvailabilityToken() *AvailabilityToken {
	return &AvailabilityToken{}
}

// complete transitions the token pending -> completed exactly once, firing
// any registered waiter. Safe to call from any thread.
func (t *AvailabilityToken) complete() {
	if !t.completedFlag.set() {
		return
	}
	t.mu.Lock()
	w := t.waiter
	t.waiter = nil
	t.mu.Unlock()
	if w != nil {
		w()
	}
}

func (t *AvailabilityToken) isCompleted() bool {
	return t.completedFlag.get()
}

// Subscribe registers cb to run once, when the token completes. If the
// token is already completed, cb runs synchronously on the calling
// goroutine instead of being deferred. Otherwise cb runs on whichever
// goroutine completes the token (typically a producer) (§4.6 step d).
func (t *AvailabilityToken) Subscribe(cb func()) {
	if t.isCompleted() {
		cb()
		return
	}
	t.mu.Lock()
	if t.isCompleted() {
		t.mu.Unlock()
		cb()
		return
	}
	t.waiter = cb
	t.mu.Unlock()
}

// InputGate is a FIFO of opaque payload buffers plus the current
// availability token (§3, §4.5). Producers call OnBuffer from any thread;
// PollNext and Availability must be called from the mailbox thread.
type InputGate struct {
	mu    sync.Mutex
	queue [][]byte
	token *AvailabilityToken
	depth metrics.UpDownCounter
}

// NewInputGate constructs an empty gate with a fresh pending token.
func NewInputGate() *InputGate {
	return newInputGate(metrics.NewNoopProvider())
}

func newInputGate(p metrics.Provider) *InputGate {
	if p == nil {
		p = metrics.NewNoopProvider()
	}
	return &InputGate{
		token: newAvailabilityToken(),
		depth: p.UpDownCounter(metricGateQueueDepth,
			metrics.WithDescription("buffers currently queued in the input gate"),
			metrics.WithUnit("1"),
		),
	}
}

// OnBuffer enqueues buf and, under the same lock, completes the current
// token if it was pending. Callable from any producer thread.
func (g *InputGate) OnBuffer(buf []byte) {
	g.mu.Lock()
	g.queue = append(g.queue, buf)
	g.token.complete()
	g.mu.Unlock()
	g.depth.Add(1)
}

// PollNext pops the head buffer if present. If the pop empties the queue and
// the current token is already completed, the token is replaced by a fresh
// pending one, atomically with the drain (§4.5 invariant).
func (g *InputGate) PollNext() ([]byte, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.queue) == 0 {
		return nil, false
	}

	buf := g.queue[0]
	g.queue[0] = nil
	g.queue = g.queue[1:]

	if len(g.queue) == 0 && g.token.isCompleted() {
		g.token = newAvailabilityToken()
	}

	g.depth.Add(-1)
	return buf, true
}

// Availability returns the current token (pending or completed). The
// handle is safe to Subscribe on outside of any lock.
func (g *InputGate) Availability() *AvailabilityToken {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}
