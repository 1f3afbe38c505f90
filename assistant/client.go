// Package assistant drives the narrative-generation protocol against the
// conversational generation service: one session per actor, one async job
// per article, chained through tool-call outputs.
package assistant

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// JobStatus mirrors the remote job lifecycle.
type JobStatus string

const (
	StatusQueued         JobStatus = "queued"
	StatusInProgress     JobStatus = "in_progress"
	StatusRequiresAction JobStatus = "requires_action"
	StatusCompleted      JobStatus = "completed"
	StatusFailed         JobStatus = "failed"
	StatusCancelled      JobStatus = "cancelled"
	StatusExpired        JobStatus = "expired"
)

// ToolCall is one function call the job is waiting on.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolOutput answers one tool call; Output doubles as the continuation
// token telling the remote service which protocol command to run next.
type ToolOutput struct {
	CallID string
	Output string
}

// JobState is a snapshot of a polled job.
type JobState struct {
	Status    JobStatus
	ToolCalls []ToolCall
	LastError string
}

// Message is one entry of a session transcript.
type Message struct {
	Role string
	Text string
}

// Client is the conversational generation service surface the pipeline
// consumes. The service itself is an external collaborator.
type Client interface {
	CreateSession(ctx context.Context) (string, error)
	PostMessage(ctx context.Context, sessionID, text string) error
	StartJob(ctx context.Context, sessionID string) (string, error)
	GetJobStatus(ctx context.Context, sessionID, jobID string) (JobState, error)
	ListMessages(ctx context.Context, sessionID string) ([]Message, error)
	SubmitToolOutputs(ctx context.Context, sessionID, jobID string, outputs []ToolOutput) error
}

// OpenAIClient adapts the assistants API (threads/runs) to Client.
type OpenAIClient struct {
	api         openai.Client
	assistantID string
}

func NewOpenAIClient(api openai.Client, assistantID string) *OpenAIClient {
	return &OpenAIClient{api: api, assistantID: assistantID}
}

func (c *OpenAIClient) CreateSession(ctx context.Context) (string, error) {
	thread, err := c.api.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	return thread.ID, nil
}

func (c *OpenAIClient) PostMessage(ctx context.Context, sessionID, text string) error {
	_, err := c.api.Beta.Threads.Messages.New(ctx, sessionID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRoleUser,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	return nil
}

func (c *OpenAIClient) StartJob(ctx context.Context, sessionID string) (string, error) {
	run, err := c.api.Beta.Threads.Runs.New(ctx, sessionID, openai.BetaThreadRunNewParams{
		AssistantID: c.assistantID,
		Tools:       stageTools(),
	})
	if err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}
	return run.ID, nil
}

func (c *OpenAIClient) GetJobStatus(ctx context.Context, sessionID, jobID string) (JobState, error) {
	run, err := c.api.Beta.Threads.Runs.Get(ctx, sessionID, jobID)
	if err != nil {
		return JobState{}, fmt.Errorf("get run: %w", err)
	}

	state := JobState{Status: JobStatus(run.Status)}
	if run.LastError.Message != "" {
		state.LastError = run.LastError.Message
	}
	for _, call := range run.RequiredAction.SubmitToolOutputs.ToolCalls {
		state.ToolCalls = append(state.ToolCalls, ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return state, nil
}

func (c *OpenAIClient) ListMessages(ctx context.Context, sessionID string) ([]Message, error) {
	page, err := c.api.Beta.Threads.Messages.List(ctx, sessionID, openai.BetaThreadMessageListParams{})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	var msgs []Message
	for _, m := range page.Data {
		text := ""
		for _, part := range m.Content {
			if part.Text.Value != "" {
				text += part.Text.Value
			}
		}
		msgs = append(msgs, Message{Role: string(m.Role), Text: text})
	}
	return msgs, nil
}

func (c *OpenAIClient) SubmitToolOutputs(ctx context.Context, sessionID, jobID string, outputs []ToolOutput) error {
	params := openai.BetaThreadRunSubmitToolOutputsParams{}
	for _, out := range outputs {
		params.ToolOutputs = append(params.ToolOutputs, openai.BetaThreadRunSubmitToolOutputsParamsToolOutput{
			ToolCallID: openai.String(out.CallID),
			Output:     openai.String(out.Output),
		})
	}
	if _, err := c.api.Beta.Threads.Runs.SubmitToolOutputs(ctx, sessionID, jobID, params); err != nil {
		return fmt.Errorf("submit tool outputs: %w", err)
	}
	return nil
}
