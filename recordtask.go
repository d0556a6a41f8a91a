package streamtask

// NewRecordStreamTask wires a fresh InputGate into a StreamTask whose default
// action is a StreamInputProcessor (§4.6): poll the gate, decode with codec,
// and hand the result to processRecord on the mailbox thread. It returns the
// gate so producers on other goroutines can call OnBuffer.
//
// Construction has a circular dependency: the default action closure needs
// to call back into the processor it is installed on (to resume it once a
// buffer arrives), but the processor does not exist until NewStreamTask
// returns. sip is forward-declared and assigned immediately after
// NewStreamTask returns, before NewRecordStreamTask itself returns and so
// before Invoke can run, so the closure never observes a nil sip.
func NewRecordStreamTask(cfg Config, codec Codec, processRecord ProcessRecordFunc, checkpointFn CheckpointFunc) (*StreamTask, *InputGate, error) {
	gate := newInputGate(cfg.MetricsProvider)

	var sip *StreamInputProcessor
	defaultAction := func(c Controller) error {
		return sip.RunDefaultAction(c)
	}

	task, err := NewStreamTask(cfg, defaultAction, checkpointFn)
	if err != nil {
		return nil, nil, err
	}

	sip = newStreamInputProcessor(gate, codec, processRecord, task.processor)
	return task, gate, nil
}
