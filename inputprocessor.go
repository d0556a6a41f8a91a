package streamtask

// Codec deserializes a raw buffer into a record. The on-wire framing and
// concrete deserialization are external collaborators, out of scope for
// this core (§1, §6); Codec is the seam the user plugs into.
type Codec func([]byte) (any, error)

// ProcessRecordFunc is the user's per-record callback, invoked on the
// mailbox thread (§6).
type ProcessRecordFunc func(record any) error

// resumer is the narrow cross-thread capability StreamInputProcessor needs:
// re-arming the processor's loop. Kept separate from Controller because
// Controller (suspend) is only ever called on the mailbox thread, while
// Resume is specifically the cross-thread entry point (§4.4).
type resumer interface {
	ResumeDefaultAction()
}

// StreamInputProcessor is the default action described in §4.6: pop a
// buffer or, if none is available, request suspension and arrange to be
// resumed when one arrives.
type StreamInputProcessor struct {
	gate          *InputGate
	codec         Codec
	processRecord ProcessRecordFunc
	resume        resumer
}

func newStreamInputProcessor(gate *InputGate, codec Codec, processRecord ProcessRecordFunc, r resumer) *StreamInputProcessor {
	return &StreamInputProcessor{
		gate:          gate,
		codec:         codec,
		processRecord: processRecord,
		resume:        r,
	}
}

// RunDefaultAction implements the exact contract from §4.6:
//  1. Poll the gate.
//  2. If a buffer came back, deserialize and hand it to the user callback,
//     then return without looping — the mailbox loop calls us again.
//  3. Otherwise, check the availability token. If it is already completed
//     (a producer raced us between PollNext and here), return immediately;
//     the next iteration will find the buffer. Otherwise suspend and
//     register a resume continuation. Checking completion before
//     suspending is the critical ordering: suspending first would lose the
//     wakeup if a buffer arrived in between.
func (s *StreamInputProcessor) RunDefaultAction(c Controller) error {
	buf, ok := s.gate.PollNext()
	if ok {
		record, err := s.codec(buf)
		if err != nil {
			return err
		}
		return s.processRecord(record)
	}

	token := s.gate.Availability()
	if token.isCompleted() {
		return nil
	}

	c.SuspendDefaultAction()
	token.Subscribe(s.resume.ResumeDefaultAction)
	return nil
}
