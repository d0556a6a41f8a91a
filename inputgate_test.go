package streamtask

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInputGateFIFOOrdering(t *testing.T) {
	g := NewInputGate()
	g.OnBuffer([]byte("x"))
	g.OnBuffer([]byte("y"))

	buf, ok := g.PollNext()
	require.True(t, ok)
	require.Equal(t, "x", string(buf))

	buf, ok = g.PollNext()
	require.True(t, ok)
	require.Equal(t, "y", string(buf))

	_, ok = g.PollNext()
	require.False(t, ok)
}

func TestInputGateTokenCompletesOnBuffer(t *testing.T) {
	g := NewInputGate()
	tok := g.Availability()
	require.False(t, tok.isCompleted())

	g.OnBuffer([]byte("z"))
	require.True(t, tok.isCompleted())
}

func TestInputGateTokenReplacedOnceDrained(t *testing.T) {
	g := NewInputGate()
	first := g.Availability()

	g.OnBuffer([]byte("a"))
	require.True(t, first.isCompleted())

	_, ok := g.PollNext()
	require.True(t, ok)

	second := g.Availability()
	require.NotSame(t, first, second)
	require.False(t, second.isCompleted())
}

func TestAvailabilityTokenSubscribeBeforeComplete(t *testing.T) {
	tok := newAvailabilityToken()
	var mu sync.Mutex
	fired := false

	tok.Subscribe(func() {
		mu.Lock()
		fired = true
		mu.Unlock()
	})

	mu.Lock()
	require.False(t, fired)
	mu.Unlock()

	tok.complete()

	mu.Lock()
	defer mu.Unlock()
	require.True(t, fired)
}

func TestAvailabilityTokenSubscribeAfterCompleteRunsSynchronously(t *testing.T) {
	tok := newAvailabilityToken()
	tok.complete()

	ran := false
	tok.Subscribe(func() { ran = true })
	require.True(t, ran)
}

func TestAvailabilityTokenCompleteIsIdempotent(t *testing.T) {
	tok := newAvailabilityToken()
	var fires int32
	var mu sync.Mutex

	tok.Subscribe(func() {
		mu.Lock()
		fires++
		mu.Unlock()
	})

	tok.complete()
	tok.complete()
	tok.complete()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, int32(1), fires)
}

// P5/P6: a subscriber registered concurrently with a completing producer
// observes exactly one callback, never zero (lost wakeup) and never a data
// race under -race.
func TestAvailabilityTokenConcurrentSubscribeAndComplete(t *testing.T) {
	for i := 0; i < 200; i++ {
		tok := newAvailabilityToken()
		done := make(chan struct{})

		go func() {
			tok.Subscribe(func() { close(done) })
		}()
		go tok.complete()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("subscriber was never notified")
		}
	}
}
