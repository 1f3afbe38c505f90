package assistant

import (
	"errors"
	"fmt"
)

// ErrMissingContent marks an arc whose terminal stage yielded no body text
// or no image description. The whole run is discarded, nothing is persisted.
var ErrMissingContent = errors.New("assistant: arc finished without content or image description")

// ArcError wraps a failure of one narrative stage; it aborts the entire
// generation attempt.
type ArcError struct {
	Stage Stage
	Err   error
}

func (e *ArcError) Error() string {
	return fmt.Sprintf("arc stage %s: %v", e.Stage, e.Err)
}

func (e *ArcError) Unwrap() error { return e.Err }

// JobError reports a job that reached a terminal state other than completed,
// or that outlived the polling budget.
type JobError struct {
	JobID  string
	Status JobStatus
	Detail string
}

func (e *JobError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("job %s ended with status %s: %s", e.JobID, e.Status, e.Detail)
	}
	return fmt.Sprintf("job %s ended with status %s", e.JobID, e.Status)
}
