package tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	streamtask "github.com/liboshuai01/streamtask"
)

// startTask constructs a StreamTask and calls Invoke on the same goroutine,
// as required by the mailbox-thread-affinity contract (the mailbox thread is
// captured at construction, §4.9), then hands the constructed task back to
// the caller over taskCh before blocking in Invoke. Executors, Close, and
// the processing-time/checkpoint registration methods are all safe to call
// from the test goroutine afterwards; only take/tryTake are pinned.
func startTask(
	t *testing.T,
	defaultAction streamtask.DefaultActionFunc,
	checkpointFn streamtask.CheckpointFunc,
	opts ...streamtask.Option,
) (*streamtask.StreamTask, <-chan error) {
	t.Helper()

	taskCh := make(chan *streamtask.StreamTask, 1)
	invokeErrCh := make(chan error, 1)

	go func() {
		task, err := streamtask.New(defaultAction, checkpointFn, opts...)
		if err != nil {
			taskCh <- nil
			invokeErrCh <- err
			return
		}
		taskCh <- task
		invokeErrCh <- task.Invoke()
	}()

	task := <-taskCh
	require.NotNil(t, task, "task construction failed")
	return task, invokeErrCh
}

// startRecordTask is startTask's counterpart for NewRecordStreamTask.
func startRecordTask(
	t *testing.T,
	cfg streamtask.Config,
	codec streamtask.Codec,
	processRecord streamtask.ProcessRecordFunc,
	checkpointFn streamtask.CheckpointFunc,
) (*streamtask.StreamTask, *streamtask.InputGate, <-chan error) {
	t.Helper()

	taskCh := make(chan *streamtask.StreamTask, 1)
	gateCh := make(chan *streamtask.InputGate, 1)
	invokeErrCh := make(chan error, 1)

	go func() {
		task, gate, err := streamtask.NewRecordStreamTask(cfg, codec, processRecord, checkpointFn)
		if err != nil {
			taskCh <- nil
			gateCh <- nil
			invokeErrCh <- err
			return
		}
		taskCh <- task
		gateCh <- gate
		invokeErrCh <- task.Invoke()
	}()

	task := <-taskCh
	gate := <-gateCh
	require.NotNil(t, task, "task construction failed")
	return task, gate, invokeErrCh
}
