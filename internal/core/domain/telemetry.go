package domain

// SyncStatus represents the lifecycle state of one project within a sync run.
type SyncStatus string

const (
	// SyncStatusPending indicates the project has not been dispatched yet.
	SyncStatusPending SyncStatus = "pending"
	// SyncStatusRunning indicates a worker is synchronizing the project.
	SyncStatusRunning SyncStatus = "running"
	// SyncStatusCompleted indicates the project synchronized successfully.
	SyncStatusCompleted SyncStatus = "completed"
	// SyncStatusFailed indicates the project failed to synchronize.
	SyncStatusFailed SyncStatus = "failed"
	// SyncStatusSkipped indicates the project was never dispatched because the run was aborted.
	SyncStatusSkipped SyncStatus = "skipped"
)

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// IsTerminal checks if a status is a terminal state (Completed, Failed, Skipped).
func (s SyncStatus) IsTerminal() bool {
	switch s {
	case SyncStatusCompleted, SyncStatusFailed, SyncStatusSkipped:
		return true
	default:
		return false
	}
}
