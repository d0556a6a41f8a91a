package streamtask

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCheckpointSchedulerTicksWithIncreasingIDs(t *testing.T) {
	mb := newPriorityMailbox(false)
	exec := Executor{mbx: mb, priority: MinPriority}

	idCh := make(chan uint64, 8)
	s := newCheckpointScheduler(10*time.Millisecond, exec, func(id uint64) error {
		idCh <- id
		return nil
	})
	s.start()
	defer s.stop()

	// tryTake is pinned to this goroutine, so poll here rather than inside
	// require.Eventually, whose condition runs on another goroutine.
	var ids []uint64
	deadline := time.Now().Add(time.Second)
	for len(ids) < 3 && time.Now().Before(deadline) {
		for {
			m, ok := mb.tryTake(MinPriority)
			if !ok {
				break
			}
			require.Equal(t, "checkpoint", m.label)
			require.NoError(t, m.run())
		}
		select {
		case id := <-idCh:
			ids = append(ids, id)
		default:
			time.Sleep(time.Millisecond)
		}
	}
	require.GreaterOrEqual(t, len(ids), 3)

	for i := 1; i < len(ids); i++ {
		require.Greater(t, ids[i], ids[i-1])
	}
}

func TestCheckpointSchedulerZeroIntervalNeverStarts(t *testing.T) {
	mb := newPriorityMailbox(false)
	exec := Executor{mbx: mb, priority: MinPriority}

	s := newCheckpointScheduler(0, exec, func(uint64) error { return nil })
	s.start()
	defer s.stop()

	time.Sleep(50 * time.Millisecond)
	require.False(t, mb.hasMail())
}

func TestCheckpointSchedulerStopIsIdempotent(t *testing.T) {
	mb := newPriorityMailbox(false)
	exec := Executor{mbx: mb, priority: MinPriority}

	s := newCheckpointScheduler(10*time.Millisecond, exec, func(uint64) error { return nil })
	s.start()

	require.NotPanics(t, func() {
		s.stop()
		s.stop()
	})
}
