package engine

import "fmt"

// Status represents the progress of a document or page decoding job.
type Status int

const (
	// StatusNotStarted indicates the job has been created but not scheduled.
	StatusNotStarted Status = iota
	// StatusStarted indicates decoding is in progress.
	StatusStarted
	// StatusOK indicates decoding has completed successfully.
	StatusOK
	// StatusFailed indicates decoding stopped with an error.
	StatusFailed
	// StatusStopped indicates the job was released before it completed.
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "NotStarted"
	case StatusStarted:
		return "Started"
	case StatusOK:
		return "OK"
	case StatusFailed:
		return "Failed"
	case StatusStopped:
		return "Stopped"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Done reports whether the job has reached a terminal state.
func (s Status) Done() bool {
	return s >= StatusOK
}
