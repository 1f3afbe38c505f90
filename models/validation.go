package models

// Task names one of the five per-article artifacts checked during repair.
type Task string

const (
	TaskMCQuestions Task = "mc-questions"
	TaskSAQuestions Task = "sa-questions"
	TaskLAQuestions Task = "la-questions"
	TaskImage       Task = "image"
	TaskAudio       Task = "audio"
)

// AllTasks lists the artifact tasks in report order.
var AllTasks = []Task{TaskMCQuestions, TaskSAQuestions, TaskLAQuestions, TaskImage, TaskAudio}

// OutcomeStatus is the resolution of one validation task.
type OutcomeStatus string

const (
	OutcomePass        OutcomeStatus = "pass"
	OutcomeRegenerated OutcomeStatus = "regenerated"
	OutcomeFailed      OutcomeStatus = "failed"
)

// ValidationOutcome is produced fresh on every validation run and never
// persisted; it only feeds the batch summary.
type ValidationOutcome struct {
	Task      Task          `json:"task"`
	Status    OutcomeStatus `json:"status"`
	ErrorCode string        `json:"error_code,omitempty"`
}

// ValidationReport collects the five task outcomes for one article.
type ValidationReport struct {
	ArticleID string              `json:"article_id"`
	Outcomes  []ValidationOutcome `json:"outcomes"`
}

// AllPassed reports whether every task resolved to pass.
func (r ValidationReport) AllPassed() bool {
	for _, o := range r.Outcomes {
		if o.Status != OutcomePass {
			return false
		}
	}
	return true
}

// AnyFailed reports whether at least one task resolved to failed.
func (r ValidationReport) AnyFailed() bool {
	for _, o := range r.Outcomes {
		if o.Status == OutcomeFailed {
			return true
		}
	}
	return false
}

// BatchSummary aggregates per-article reports for one repair batch.
type BatchSummary struct {
	Total       int                `json:"total"`
	Passed      int                `json:"passed"`
	Regenerated int                `json:"regenerated"`
	Failed      int                `json:"failed"`
	// Details holds the reports of articles that needed work or failed.
	Details []ValidationReport `json:"details"`
}
