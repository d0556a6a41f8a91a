package streamtask

import (
	"fmt"
	"time"

	"github.com/liboshuai01/streamtask/metrics"
)

// Option configures a StreamTask. Use New(defaultAction, checkpointFn, opts...)
// to construct a StreamTask via options.
type Option func(*Config)

// WithCheckpointInterval sets the period between checkpoint scheduler
// ticks. A zero or negative duration disables the scheduler, same as the
// Config zero value.
func WithCheckpointInterval(d time.Duration) Option {
	return func(c *Config) {
		if d < 0 {
			d = 0
		}
		c.CheckpointIntervalMS = uint(d.Milliseconds())
	}
}

// WithTimerThreadDaemon marks the processing-time service's goroutine as a
// daemon: Shutdown will not wait for it to exit.
func WithTimerThreadDaemon() Option {
	return func(c *Config) { c.TimerThreadIsDaemon = true }
}

// WithMailboxFailClosedLogs controls whether a put on a closed mailbox logs
// a warning (default true).
func WithMailboxFailClosedLogs(enabled bool) Option {
	return func(c *Config) { c.MailboxFailClosedLogs = enabled }
}

// WithMetricsProvider directs the processor's instruments (mails processed,
// default-action latency) at p instead of a no-op provider.
func WithMetricsProvider(p metrics.Provider) Option {
	return func(c *Config) { c.MetricsProvider = p }
}

// New constructs a StreamTask using functional options. It preserves
// backward compatibility by internally constructing a Config and
// delegating to NewStreamTask, mirroring the teacher library's own dual
// Config/Option constructors.
func New(defaultAction DefaultActionFunc, checkpointFn CheckpointFunc, opts ...Option) (*StreamTask, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			panic("nil streamtask option")
		}
		opt(&cfg)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid streamtask config: %w", err)
	}

	return NewStreamTask(cfg, defaultAction, checkpointFn)
}
