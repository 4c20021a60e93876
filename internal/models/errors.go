package models

// FailureKind categorizes why a task, action, or condition reported false.
// Failures never abort the process; they surface as a false result plus a
// structured log line carrying the kind.
type FailureKind string

const (
	// Configuration errors: unknown task or action type, empty invoke
	// target, cycle detected.
	FailureConfig FailureKind = "config"

	// Transient device errors: capture, tap, swipe, key, or text input
	// failures on the device transport.
	FailureDevice FailureKind = "device"

	// Perception errors: image decode failure or an unavailable backend.
	FailurePerception FailureKind = "perception"

	// Data errors: a malformed persisted forest.
	FailureData FailureKind = "data"
)
