package streamtask

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecutorExecutePutsAtBoundPriority(t *testing.T) {
	mb := newPriorityMailbox(false)
	e := Executor{mbx: mb, priority: MinPriority}

	e.Execute(func() error { return nil }, "ctrl")

	m, ok := mb.tryTake(MinPriority)
	require.True(t, ok)
	require.Equal(t, MinPriority, m.priority)
	require.Equal(t, "ctrl", m.label)
}
