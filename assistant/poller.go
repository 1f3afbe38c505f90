package assistant

import (
	"context"
	"fmt"
	"time"
)

// Poller drives an asynchronous job to completion. It always waits between
// status checks and gives up after a fixed number of attempts, so a stuck
// remote job can neither busy-spin nor hold the caller forever.
type Poller struct {
	client      Client
	interval    time.Duration
	maxAttempts int
}

func NewPoller(client Client, interval time.Duration, maxAttempts int) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 150
	}
	return &Poller{client: client, interval: interval, maxAttempts: maxAttempts}
}

// Drive polls the job until it completes. In requires_action it routes each
// requested function call to its stage handler, applies it to the draft and
// submits the handlers' continuation tokens back in one batch. Completion
// ends the loop; any other terminal status is a JobError.
func (p *Poller) Drive(ctx context.Context, sessionID, jobID string, draft *Draft) error {
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		state, err := p.client.GetJobStatus(ctx, sessionID, jobID)
		if err != nil {
			return &JobError{JobID: jobID, Status: StatusFailed, Detail: err.Error()}
		}

		switch state.Status {
		case StatusCompleted:
			return nil

		case StatusRequiresAction:
			outputs := make([]ToolOutput, 0, len(state.ToolCalls))
			for _, call := range state.ToolCalls {
				stage, ok := StageForTool(call.Name)
				if !ok {
					return &JobError{JobID: jobID, Status: state.Status,
						Detail: fmt.Sprintf("unknown tool %q", call.Name)}
				}
				token, err := draft.Apply(stage, call.Arguments)
				if err != nil {
					return err
				}
				outputs = append(outputs, ToolOutput{CallID: call.ID, Output: token})
			}
			if err := p.client.SubmitToolOutputs(ctx, sessionID, jobID, outputs); err != nil {
				return &JobError{JobID: jobID, Status: state.Status, Detail: err.Error()}
			}

		case StatusQueued, StatusInProgress:
			// fall through to the wait below

		default:
			return &JobError{JobID: jobID, Status: state.Status, Detail: state.LastError}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.interval):
		}
	}
	return &JobError{JobID: jobID, Status: StatusExpired,
		Detail: fmt.Sprintf("no terminal status after %d polls", p.maxAttempts)}
}
