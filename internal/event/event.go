package event

// EventType represents the type of an event emitted during a scan
type EventType string

const (
	// SweepProgressEvent emitted periodically during the liveness sweep
	SweepProgressEvent EventType = "SWEEP_PROGRESS"
	// HostScannedEvent emitted when a single host's port scan completes
	HostScannedEvent EventType = "HOST_SCANNED"
	// ScanErrorEvent emitted when a host scan fails part way through
	ScanErrorEvent EventType = "SCAN_ERROR"
)

// Event data structure representing any event we may want to react to
type Event struct {
	Type    EventType
	Payload any
}

// SweepProgress payload for SweepProgressEvent
type SweepProgress struct {
	Completed int
	Total     int
	Live      int
}

// ScanError payload for ScanErrorEvent
type ScanError struct {
	Addr string
	Err  error
}
