package streamtask

import (
	"time"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
)

// StreamTask owns the mailbox thread and wires the mailbox, processor,
// processing-time service, and checkpoint scheduler together (§4.9).
type StreamTask struct {
	cfg Config

	mbx       *PriorityMailbox
	processor *MailboxProcessor

	mainExecutor    Executor
	controlExecutor Executor

	timerService *ProcessingTimeService
	checkpointer *checkpointScheduler
}

// NewStreamTask constructs a StreamTask. The calling goroutine is captured
// as the mailbox thread (§4.9); Invoke must be called from this same
// goroutine. checkpointFn may be nil, in which case the checkpoint
// scheduler is never started regardless of CheckpointIntervalMS.
func NewStreamTask(cfg Config, defaultAction DefaultActionFunc, checkpointFn CheckpointFunc) (*StreamTask, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	mbx := newPriorityMailbox(cfg.MailboxFailClosedLogs)
	processor := newMailboxProcessor(mbx, defaultAction, newTaskMetrics(cfg.MetricsProvider))

	t := &StreamTask{
		cfg:             cfg,
		mbx:             mbx,
		processor:       processor,
		mainExecutor:    Executor{mbx: mbx, priority: DefaultPriority},
		controlExecutor: Executor{mbx: mbx, priority: MinPriority},
	}

	t.timerService = newProcessingTimeService(t.mainExecutor, cfg.TimerThreadIsDaemon)

	if checkpointFn != nil {
		t.checkpointer = newCheckpointScheduler(
			time.Duration(cfg.CheckpointIntervalMS)*time.Millisecond,
			t.controlExecutor,
			checkpointFn,
		)
		t.checkpointer.start()
	}

	return t, nil
}

// MainExecutor returns a DEFAULT-priority executor handle (§6).
func (t *StreamTask) MainExecutor() Executor { return t.mainExecutor }

// ControlExecutor returns a MIN-priority executor handle (§6).
func (t *StreamTask) ControlExecutor() Executor { return t.controlExecutor }

// ProcessingTimeService exposes the timer service (§6).
func (t *StreamTask) ProcessingTimeService() *ProcessingTimeService { return t.timerService }

// Invoke runs the mailbox loop on the calling goroutine until a mail or the
// default action propagates an error, or the mailbox is closed, then runs
// the shutdown sequence (§4.9). The mailbox's own termination
// (ErrMailboxClosed) is expected at shutdown and is not itself returned.
func (t *StreamTask) Invoke() error {
	loopErr := t.processor.run()
	if loopErr == ErrMailboxClosed {
		loopErr = nil
	}

	shutdownErr := t.shutdown()

	if loopErr != nil && shutdownErr != nil {
		return multierror.Append(loopErr, shutdownErr)
	}
	if loopErr != nil {
		return loopErr
	}
	return shutdownErr
}

// shutdown stops the timer service, stops the checkpoint scheduler, drains
// any control mail still queued (e.g. a checkpoint that was queued when a
// failing mail ended the loop), then closes the mailbox (§4.9 step 3, §3
// QUIESCED). Errors raised by drained mails are aggregated rather than
// silently discarded.
func (t *StreamTask) shutdown() error {
	t.timerService.Shutdown()

	if t.checkpointer != nil {
		t.checkpointer.stop()
	}

	t.mbx.quiesce()

	var result error
	for {
		m, ok := t.mbx.tryTake(MinPriority)
		if !ok {
			break
		}
		if err := m.run(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	t.mbx.close()

	if result != nil {
		log.Warnf("%s: shutdown complete with drained-mail errors: %v", Namespace, result)
	} else {
		log.Debugf("%s: shutdown complete", Namespace)
	}

	return result
}

// Close requests shutdown from any thread by quiescing the mailbox: no new
// mail is accepted, but whatever is already queued still drains in priority
// order before the mailbox loop observes termination. Once drained, the
// blocked take raises ErrMailboxClosed, which Invoke treats as normal
// termination (§7 kind 2, §3 QUIESCED).
func (t *StreamTask) Close() {
	t.mbx.quiesce()
}
