// Package streamtask provides a miniature single-threaded task runtime for
// stream-style operators, modelled on the mailbox task loop used by modern
// stream-processing engines.
//
// A StreamTask owns exactly one goroutine ("the mailbox thread"). Every
// mutation of task state happens on that goroutine: record ingestion from an
// InputGate, periodic control events (checkpoints, timers), and the task's
// own default action all funnel through a PriorityMailbox so that no lock is
// ever required around task state itself.
//
// Constructors
//   - NewStreamTask(Config, DefaultActionFunc, CheckpointFunc): current
//     stable constructor that accepts a Config.
//   - New(DefaultActionFunc, CheckpointFunc, ...Option): options-based
//     constructor. Prefer this in new code.
//   - NewRecordStreamTask(Config, Codec, ProcessRecordFunc, CheckpointFunc):
//     wires a fresh InputGate into a StreamTask whose default action is a
//     StreamInputProcessor, for the common case of a task consuming framed
//     records from one producer-fed gate.
//
// Defaults
// Unless overridden, the following defaults apply to a newly created task:
//   - CheckpointIntervalMS: 0 (checkpoint scheduler disabled)
//   - TimerThreadIsDaemon: false (Shutdown waits for the timer goroutine)
//   - MailboxFailClosedLogs: true (dropped mails are logged at warn)
//
// Channel lifecycle
// The library does not expose raw channels to user code; all cross-thread
// communication is mediated by mails and the input gate's availability
// token. See MailboxProcessor and InputGate for the two suspension points in
// the runtime.
package streamtask
