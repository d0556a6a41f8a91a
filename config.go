package streamtask

import "github.com/liboshuai01/streamtask/metrics"

// Config holds StreamTask configuration (§6).
type Config struct {
	// CheckpointIntervalMS is the period between checkpoint scheduler
	// ticks, in milliseconds. Zero (default) disables the checkpoint
	// scheduler entirely.
	// Default: 0 (disabled)
	CheckpointIntervalMS uint

	// TimerThreadIsDaemon controls whether the processing-time service's
	// goroutine is waited on during shutdown. Go has no daemon threads, so
	// this governs whether Invoke's shutdown step blocks on it.
	// Default: false (Shutdown waits for the timer goroutine)
	TimerThreadIsDaemon bool

	// MailboxFailClosedLogs controls whether a put on a closed mailbox
	// logs a warning or is silent.
	// Default: true
	MailboxFailClosedLogs bool

	// MetricsProvider receives the processor's instruments (mails
	// processed, default-action latency). A nil provider (the default)
	// records into metrics.NewNoopProvider().
	MetricsProvider metrics.Provider
}

// defaultConfig centralizes default values for Config.
func defaultConfig() Config {
	return Config{
		CheckpointIntervalMS:  0,
		TimerThreadIsDaemon:   false,
		MailboxFailClosedLogs: true,
	}
}

// validateConfig performs lightweight invariant checks. Reserved for future
// validation expansion, matching the teacher's own posture on this helper.
func validateConfig(_ *Config) error {
	return nil
}
