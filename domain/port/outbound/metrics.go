package outbound

// MetricsRecorder counts domain-level events for the monitoring endpoint.
type MetricsRecorder interface {
	// RecordStateReload counts one reload attempt for a state sequence.
	// outcome is "success", "error" or "stale".
	RecordStateReload(resource, outcome string)
}
