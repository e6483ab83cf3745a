package model

// JobStatus represents the status of a conversion job
type JobStatus string

const (
	// JobStatusIdle means no conversion has been submitted yet
	JobStatusIdle JobStatus = "Idle"

	// JobStatusRunning means the converter call is in progress
	JobStatusRunning JobStatus = "Running"

	// JobStatusCompleted means the converter returned Markdown
	JobStatusCompleted JobStatus = "Completed"

	// JobStatusFailed means the converter returned an error or panicked
	JobStatusFailed JobStatus = "Failed"

	// JobStatusCancelled means the outcome was discarded after a cancel request
	JobStatusCancelled JobStatus = "Cancelled"
)

// String returns the string representation of JobStatus
func (js JobStatus) String() string {
	return string(js)
}

// IsActive returns true if the job still owns the runner
func (js JobStatus) IsActive() bool {
	return js == JobStatusRunning
}

// IsFinished returns true if the job reached a terminal state (completed, failed, or cancelled)
func (js JobStatus) IsFinished() bool {
	return js == JobStatusCompleted || js == JobStatusFailed || js == JobStatusCancelled
}
