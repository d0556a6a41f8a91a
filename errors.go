package streamtask

import "errors"

// Namespace prefixes every sentinel error so callers can grep log output
// back to this package unambiguously.
const Namespace = "streamtask"

var (
	// ErrMailboxClosed is observed by a blocked take after close(). Expected
	// at shutdown; causes the mailbox loop to exit normally (§7 kind 2).
	ErrMailboxClosed = errors.New(Namespace + ": mailbox closed")

	// ErrMailExecutionFailure wraps a panic raised by a mail's callable; an
	// error the callable returns is propagated as-is, tagged with the mail's
	// label and sequence number. Either way the failure is propagated out of
	// the mailbox loop and hence out of Invoke() (§7 kind 3).
	ErrMailExecutionFailure = errors.New(Namespace + ": mail execution failed")

	// ErrThreadAffinityViolation is reported when take/tryTake is called
	// from a goroutine other than the one that constructed the mailbox.
	// This is a programmer error and is fatal, not recoverable (§7 kind 1).
	ErrThreadAffinityViolation = errors.New(Namespace + ": thread affinity violation")

	// ErrTimerCallbackFailure wraps a panic raised by a user timer callback;
	// treated identically to ErrMailExecutionFailure once mailed (§7 kind 5).
	ErrTimerCallbackFailure = errors.New(Namespace + ": timer callback failed")

	// ErrInvalidConfig is the sentinel for a structurally invalid Config.
	// validateConfig accepts every Config and never returns it.
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")
)
