package streamtask

// Executor is a lightweight handle binding "submit to mailbox" with a fixed
// priority (§4.3). It is a value type: cheap to clone and safe to hand to
// any producer thread. A StreamTask hands out two in circulation: the main
// executor (DefaultPriority) and the control executor (MinPriority).
type Executor struct {
	mbx      *PriorityMailbox
	priority int
}

// Execute constructs a mail from fn and label and puts it on the bound
// mailbox at the executor's fixed priority.
func (e Executor) Execute(fn func() error, label string) {
	e.mbx.put(newMail(fn, e.priority, label))
}
