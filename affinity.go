package streamtask

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutineID identifies a goroutine for thread-affinity checks. Go exposes
// no public API for this, so it is recovered from the runtime's own stack
// dump header ("goroutine 123 [running]:"), the standard low-overhead
// recipe used by debuggers and race detectors alike. This is only used for
// a cheap equality check on the mailbox's hot path, never for scheduling
// decisions.
type goroutineID uint64

func currentGoroutineID() goroutineID {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	fields := bytes.Fields(buf)
	if len(fields) < 2 {
		return 0
	}

	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 0
	}
	return goroutineID(id)
}
