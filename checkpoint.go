package streamtask

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// CheckpointFunc is the control-path callback invoked on the mailbox thread
// by construction, because it is always reached via a mail (§4.9).
type CheckpointFunc func(checkpointID uint64) error

// checkpointScheduler is the auxiliary thread that periodically submits a
// high-priority checkpoint mail (§4.8). It never touches task state itself;
// it only owns the ticker and the checkpoint ID counter.
type checkpointScheduler struct {
	interval time.Duration
	executor Executor
	perform  CheckpointFunc

	nextID uint64

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func newCheckpointScheduler(interval time.Duration, executor Executor, perform CheckpointFunc) *checkpointScheduler {
	return &checkpointScheduler{
		interval: interval,
		executor: executor,
		perform:  perform,
		stopCh:   make(chan struct{}),
	}
}

// start launches the scheduler goroutine. A zero interval disables the
// scheduler entirely (no ticks are ever submitted).
func (s *checkpointScheduler) start() {
	if s.interval <= 0 {
		return
	}
	s.wg.Add(1)
	go s.run()
}

func (s *checkpointScheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.nextID++
			id := s.nextID
			s.executor.Execute(func() error {
				if err := s.perform(id); err != nil {
					log.Warnf("%s: checkpoint %d failed: %v", Namespace, id, err)
					return err
				}
				return nil
			}, "checkpoint")
		}
	}
}

// stop interrupts and joins the scheduler goroutine. Called before the task
// closes its mailbox (§4.8). Idempotent: a second call is a no-op rather
// than a double-close panic, since shutdown paths may invoke it more than
// once (e.g. an explicit stop followed by the task's own shutdown step).
func (s *checkpointScheduler) stop() {
	if s.interval <= 0 {
		return
	}
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
}
