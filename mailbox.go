package streamtask

import (
	"container/heap"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// mailboxState is one of the three observable states from the data model
// (§3): open accepts puts and blocks takes; quiesced refuses new puts but
// still drains whatever is queued, used by Close for an orderly shutdown;
// closed is terminal and drops anything still queued.
type mailboxState int32

const (
	mailboxOpen mailboxState = iota
	mailboxQuiesced
	mailboxClosed
)

// mailHeap is a container/heap.Interface over mails, ordered by
// (priority asc, seqNum asc). A standard binary heap is sufficient per §9;
// this module never substitutes a per-priority FIFO set.
type mailHeap []*mail

func (h mailHeap) Len() int            { return len(h) }
func (h mailHeap) Less(i, j int) bool  { return h[i].less(h[j]) }
func (h mailHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *mailHeap) Push(x interface{}) { *h = append(*h, x.(*mail)) }
func (h *mailHeap) Pop() interface{} {
	old := *h
	n := len(old)
	m := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return m
}

// PriorityMailbox is a thread-safe priority queue pinned to exactly one
// goroutine ("the mailbox thread") for its consumer side. Any goroutine may
// put or close; only the pinned goroutine may take or tryTake (§4.2).
type PriorityMailbox struct {
	mu    sync.Mutex
	cond  *sync.Cond
	heap  mailHeap
	state mailboxState
	owner goroutineID

	// failClosedLogs controls whether a put-after-close is logged at warn
	// (mailbox_fail_closed_logs, §6).
	failClosedLogs bool
}

// newPriorityMailbox constructs a mailbox pinned to the calling goroutine.
func newPriorityMailbox(failClosedLogs bool) *PriorityMailbox {
	mb := &PriorityMailbox{
		owner:          currentGoroutineID(),
		state:          mailboxOpen,
		failClosedLogs: failClosedLogs,
	}
	mb.cond = sync.NewCond(&mb.mu)
	return mb
}

// checkAffinity panics with ErrThreadAffinityViolation detail if called from
// a goroutine other than the mailbox's owner. This is a programmer error,
// reported fatally rather than as a recoverable error (§4.2, §7 kind 1).
func (mb *PriorityMailbox) checkAffinity() {
	if got := currentGoroutineID(); got != mb.owner {
		log.Errorf("%s: thread affinity violation: expected goroutine %d, got %d", Namespace, mb.owner, got)
		panic(fmt.Errorf("%w: expected goroutine %d, got %d", ErrThreadAffinityViolation, mb.owner, got))
	}
}

// hasMail is a non-blocking, advisory snapshot. May be called from any
// thread (§4.2).
func (mb *PriorityMailbox) hasMail() bool {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return len(mb.heap) > 0
}

// tryTake returns the head mail iff the mailbox is non-empty and the head's
// priority is at or below floor. Must be called from the pinned thread.
// Does not block.
func (mb *PriorityMailbox) tryTake(floor int) (*mail, bool) {
	mb.checkAffinity()

	mb.mu.Lock()
	defer mb.mu.Unlock()

	if len(mb.heap) == 0 || mb.heap[0].priority > floor {
		return nil, false
	}
	return heap.Pop(&mb.heap).(*mail), true
}

// take blocks until either the head satisfies the priority floor or no more
// mail can ever satisfy it, in which case it fails with ErrMailboxClosed.
// That terminal condition is reached either when the mailbox is closed, or
// when it is quiesced with nothing left to drain — quiesced refuses new
// puts, so an empty quiesced mailbox can never become non-empty again.
// Spurious wakeups are tolerated: the head is re-checked on every wake
// (§4.2).
func (mb *PriorityMailbox) take(floor int) (*mail, error) {
	mb.checkAffinity()

	mb.mu.Lock()
	defer mb.mu.Unlock()

	for {
		if len(mb.heap) > 0 && mb.heap[0].priority <= floor {
			return heap.Pop(&mb.heap).(*mail), nil
		}
		if mb.state == mailboxClosed || (mb.state == mailboxQuiesced && len(mb.heap) == 0) {
			return nil, ErrMailboxClosed
		}
		mb.cond.Wait()
	}
}

// put enqueues m. Callable from any thread. If the mailbox is closed (or
// quiesced), the mail is dropped; a warning is logged unless
// mailbox_fail_closed_logs disables it (§4.2, §7 kind 4). At least one
// waiter is signalled after the mail is enqueued, never before.
func (mb *PriorityMailbox) put(m *mail) {
	mb.mu.Lock()

	if mb.state != mailboxOpen {
		mb.mu.Unlock()
		if mb.failClosedLogs {
			log.Warnf("%s: dropping mail %q (seq=%d): mailbox not open", Namespace, m.label, m.seqNum)
		}
		return
	}

	heap.Push(&mb.heap, m)
	mb.mu.Unlock()
	mb.cond.Signal()
}

// quiesce transitions the mailbox to quiesced: no longer accepts new mail,
// but take/tryTake continue to drain whatever remains queued; a take
// blocked on an empty mailbox is woken so it can observe the new terminal
// condition once draining finishes (§3, §4.9). This is also how Close
// requests an orderly drain-then-stop instead of dropping queued control
// mail outright.
func (mb *PriorityMailbox) quiesce() {
	mb.mu.Lock()
	if mb.state == mailboxOpen {
		mb.state = mailboxQuiesced
	}
	mb.mu.Unlock()
	mb.cond.Broadcast()
}

// close transitions the mailbox to closed: queued mails are dropped and all
// waiting takers unblock with ErrMailboxClosed (§4.2).
func (mb *PriorityMailbox) close() {
	mb.mu.Lock()
	mb.state = mailboxClosed
	mb.heap = nil
	mb.mu.Unlock()
	mb.cond.Broadcast()
}
