package model

// TaskStatus is the lifecycle state of one yt-dlp download
type TaskStatus string

// Queued tasks are Pending. The scheduler claims them as Starting, the
// runner reports Downloading, and a stop request passes through Stopping.
const (
	TaskStatusPending     TaskStatus = "Pending"
	TaskStatusStarting    TaskStatus = "Starting"
	TaskStatusDownloading TaskStatus = "Downloading"
	TaskStatusStopping    TaskStatus = "Stopping"
	TaskStatusStopped     TaskStatus = "Stopped"
	TaskStatusCompleted   TaskStatus = "Completed"
	TaskStatusError       TaskStatus = "Error"
)

func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive reports whether the task holds a parallel download slot
func (ts TaskStatus) IsActive() bool {
	switch ts {
	case TaskStatusStarting, TaskStatusDownloading, TaskStatusStopping:
		return true
	}
	return false
}

// IsFinished reports whether the task reached a final state
func (ts TaskStatus) IsFinished() bool {
	switch ts {
	case TaskStatusCompleted, TaskStatusStopped, TaskStatusError:
		return true
	}
	return false
}

// CanStop reports whether a stop request still has an effect
func (ts TaskStatus) CanStop() bool {
	return ts == TaskStatusPending || ts == TaskStatusStarting || ts == TaskStatusDownloading
}

// CanRestart reports whether the task may be queued again
func (ts TaskStatus) CanRestart() bool {
	return ts == TaskStatusStopped || ts == TaskStatusError
}
