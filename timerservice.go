package streamtask

import (
	"container/heap"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// CancelFunc, if called before a timer fires, prevents its mail from being
// enqueued. It is best-effort: a firing already in flight may still run,
// and if the mail has already been mailed, cancellation does not stop it
// from executing (§4.7, §8 P12).
type CancelFunc func()

type timerEntry struct {
	trigger   time.Time
	fire      func(time.Time)
	cancelled atomic.Bool
	index     int // heap index, maintained by timerHeap
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int            { return len(h) }
func (h timerHeap) Less(i, j int) bool  { return h[i].trigger.Before(h[j].trigger) }
func (h timerHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *timerHeap) Push(x interface{}) { e := x.(*timerEntry); e.index = len(*h); *h = append(*h, e) }
func (h *timerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// ProcessingTimeService is an off-task timer wheel (§4.7): a single
// dedicated goroutine that fires registered timers and, rather than
// invoking the user callback directly, mails it back to the task thread via
// the provided executor — the standard "hop back to the task thread"
// pattern, since the callback observes task state.
type ProcessingTimeService struct {
	mu     sync.Mutex
	heap   timerHeap
	wake   chan struct{}
	stopCh chan struct{}
	wg     sync.WaitGroup
	daemon bool
	closed bool

	executor Executor
}

// newProcessingTimeService starts the timer goroutine. daemon mirrors
// timer_thread_is_daemon (§6): Go has no daemon threads, so "daemon" is
// modelled as "Shutdown does not wait for the goroutine to exit."
func newProcessingTimeService(executor Executor, daemon bool) *ProcessingTimeService {
	s := &ProcessingTimeService{
		wake:     make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		daemon:   daemon,
		executor: executor,
	}

	s.wg.Add(1)
	go s.run()
	return s
}

// CurrentProcessingTime returns the current wall-clock time as a time.Time,
// which is acceptable per §4.7.
func (s *ProcessingTimeService) CurrentProcessingTime() time.Time {
	return time.Now()
}

// RegisterTimer schedules cb to fire at or after trigger. The callback
// itself runs on the mailbox thread, mailed in by the timer goroutine.
func (s *ProcessingTimeService) RegisterTimer(trigger time.Time, cb func(time.Time)) CancelFunc {
	e := &timerEntry{trigger: trigger, fire: cb}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return func() {}
	}
	heap.Push(&s.heap, e)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}

	return func() { e.cancelled.Store(true) }
}

// Shutdown stops accepting new timers; in-flight firings may still be
// dropped (§4.7). It blocks until the timer goroutine exits unless the
// service was configured as a daemon.
func (s *ProcessingTimeService) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	close(s.stopCh)
	if !s.daemon {
		s.wg.Wait()
	}
}

func (s *ProcessingTimeService) run() {
	defer s.wg.Done()

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		wait := s.nextWait()
		resetTimer(timer, wait)

		select {
		case <-s.stopCh:
			return
		case <-s.wake:
		case <-timer.C:
			s.fireDue()
		}
	}
}

func (s *ProcessingTimeService) nextWait() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.heap) == 0 {
		return time.Hour
	}
	if wait := time.Until(s.heap[0].trigger); wait > 0 {
		return wait
	}
	return 0
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

// fireDue pops and mails every entry whose trigger has elapsed.
func (s *ProcessingTimeService) fireDue() {
	now := time.Now()
	for {
		s.mu.Lock()
		if len(s.heap) == 0 || s.heap[0].trigger.After(now) {
			s.mu.Unlock()
			return
		}
		e := heap.Pop(&s.heap).(*timerEntry)
		s.mu.Unlock()

		if e.cancelled.Load() {
			continue
		}
		s.mailFiring(e, now)
	}
}

// mailFiring enqueues a DEFAULT-priority mail invoking the user callback.
// A panic inside the callback is recovered and reported as
// ErrTimerCallbackFailure, which the mailbox loop then propagates exactly
// like any other mail execution failure (§7 kind 5).
func (s *ProcessingTimeService) mailFiring(e *timerEntry, firedAt time.Time) {
	cb := e.fire
	s.executor.Execute(func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("%w: %v", ErrTimerCallbackFailure, p)
			}
			if err != nil {
				log.Warnf("%s: timer callback failed: %v", Namespace, err)
			}
		}()
		cb(firedAt)
		return nil
	}, "timer-fire")
}
