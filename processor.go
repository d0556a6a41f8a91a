package streamtask

import "time"

// DefaultActionFunc is the per-iteration "try to make progress on data"
// step (§4.4). It must never block; if it cannot make progress it should
// suspend via the Controller and return.
type DefaultActionFunc func(c Controller) error

// Controller is the capability a MailboxProcessor exposes to the default
// action so it can request suspension (§4.4).
type Controller interface {
	// SuspendDefaultAction marks the default action as unavailable.
	// Idempotent within one loop iteration.
	SuspendDefaultAction()
}

// MailboxProcessor is the single-threaded default-action loop that owns the
// mailbox thread until a mail or the default action propagates an error, or
// the mailbox is closed (§4.4).
type MailboxProcessor struct {
	mbx           *PriorityMailbox
	defaultAction DefaultActionFunc
	metrics       taskMetrics

	// defaultActionAvailable is touched only from the mailbox thread.
	defaultActionAvailable bool
}

// newMailboxProcessor constructs a processor over mbx. The default action is
// available from the first iteration.
func newMailboxProcessor(mbx *PriorityMailbox, action DefaultActionFunc, m taskMetrics) *MailboxProcessor {
	return &MailboxProcessor{
		mbx:                    mbx,
		defaultAction:          action,
		metrics:                m,
		defaultActionAvailable: true,
	}
}

// SuspendDefaultAction implements Controller.
func (p *MailboxProcessor) SuspendDefaultAction() {
	p.defaultActionAvailable = false
}

// ResumeDefaultAction is the only supported cross-thread entry point to
// re-arm the loop: it posts a MinPriority mail whose body flips the
// availability flag back to true (§4.4).
func (p *MailboxProcessor) ResumeDefaultAction() {
	p.mbx.put(newMail(func() error {
		p.defaultActionAvailable = true
		return nil
	}, MinPriority, "resume-default-action"))
}

// runOnce executes exactly one iteration of the loop: drain every mail at or
// above control priority, then either run the default action or block for
// the next mail at DefaultPriority or better. Returns the drained/executed
// mail error (if any), or ErrMailboxClosed once the mailbox is closed and
// empty of higher-priority work.
func (p *MailboxProcessor) runOnce() error {
	for {
		m, ok := p.mbx.tryTake(MinPriority)
		if !ok {
			break
		}
		err := m.run()
		p.metrics.mailsProcessed.Add(1)
		if err != nil {
			return err
		}
	}

	if p.defaultActionAvailable {
		start := time.Now()
		err := p.defaultAction(p)
		p.metrics.defaultActionLat.Record(time.Since(start).Seconds())
		return err
	}

	m, err := p.mbx.take(DefaultPriority)
	if err != nil {
		return err
	}
	runErr := m.run()
	p.metrics.mailsProcessed.Add(1)
	return runErr
}

// run executes runOnce in a loop until it returns a non-nil error (either a
// mail/default-action failure, or ErrMailboxClosed at shutdown).
func (p *MailboxProcessor) run() error {
	for {
		if err := p.runOnce(); err != nil {
			return err
		}
	}
}
