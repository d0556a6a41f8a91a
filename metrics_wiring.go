package streamtask

import "github.com/liboshuai01/streamtask/metrics"

// Instrument names recorded against the metrics.Provider supplied via
// WithMetricsProvider. Kept as constants so tests and dashboards can refer
// to them without duplicating string literals.
const (
	metricMailsProcessed   = "streamtask_mails_processed_total"
	metricDefaultActionLat = "streamtask_default_action_duration_seconds"
	metricGateQueueDepth   = "streamtask_input_gate_queue_depth"
)

// taskMetrics bundles the instruments a StreamTask's processor records
// against. It is built once from a metrics.Provider; the input gate builds
// its own queue-depth instrument independently (see newInputGate), since a
// gate can outlive or be shared independently of any one task. The core
// loop logic never imports the metrics package directly except through
// this seam, matching the teacher's own "keep the surface minimal, inject
// optionally" posture for the metrics subpackage.
type taskMetrics struct {
	mailsProcessed   metrics.Counter
	defaultActionLat metrics.Histogram
}

func newTaskMetrics(p metrics.Provider) taskMetrics {
	if p == nil {
		p = metrics.NewNoopProvider()
	}
	return taskMetrics{
		mailsProcessed: p.Counter(metricMailsProcessed,
			metrics.WithDescription("mails executed by the mailbox processor"),
			metrics.WithUnit("1"),
		),
		defaultActionLat: p.Histogram(metricDefaultActionLat,
			metrics.WithDescription("wall-clock duration of one default-action invocation"),
			metrics.WithUnit("s"),
		),
	}
}
