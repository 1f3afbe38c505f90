// Package batch drives the two long-running jobs of the pipeline: the
// artifact repair batch behind the HTTP trigger and the bulk article
// generation run behind the CLI.
package batch

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"readleaf/models"
	"readleaf/notify"
)

// ErrInvalidSelector marks a repair request that cannot be resolved to
// article ids. Callers map it to a 400 before any validation work starts.
var ErrInvalidSelector = errors.New("invalid batch selector")

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Selector names the records one repair batch covers. Exactly one field
// is honored, in declaration order: explicit ids win over a date filter,
// which wins over the run-today switch.
type Selector struct {
	IDs        []string
	FilterDate string
	RunToday   bool
}

// ArticleFinder resolves date selectors to article ids.
type ArticleFinder interface {
	FindIDsByDateRange(ctx context.Context, from, to time.Time) ([]string, error)
}

// Validating is the slice of the artifact validator the repairer uses.
type Validating interface {
	Validate(ctx context.Context, articleID string) models.ValidationReport
}

// Repairer fans a repair batch out over a bounded worker pool.
type Repairer struct {
	articles  ArticleFinder
	validator Validating
	notifier  notify.Notifier

	// maxConcurrent bounds simultaneous per-record validations so media
	// regeneration cannot stampede the external services.
	maxConcurrent    int
	perRecordTimeout time.Duration

	now func() time.Time
}

func NewRepairer(articles ArticleFinder, validator Validating, notifier notify.Notifier, maxConcurrent int, perRecordTimeout time.Duration) *Repairer {
	if maxConcurrent < 1 {
		maxConcurrent = 4
	}
	if perRecordTimeout <= 0 {
		perRecordTimeout = 5 * time.Minute
	}
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &Repairer{
		articles:         articles,
		validator:        validator,
		notifier:         notifier,
		maxConcurrent:    maxConcurrent,
		perRecordTimeout: perRecordTimeout,
		now:              time.Now,
	}
}

// Resolve turns a selector into the list of article ids to validate.
// Selector errors surface here, before any notification or validation.
func (r *Repairer) Resolve(ctx context.Context, sel Selector) ([]string, error) {
	switch {
	case len(sel.IDs) > 0:
		return sel.IDs, nil
	case sel.FilterDate != "":
		if !dateRe.MatchString(sel.FilterDate) {
			return nil, fmt.Errorf("%w: filterDate %q is not YYYY-MM-DD", ErrInvalidSelector, sel.FilterDate)
		}
		day, err := time.ParseInLocation("2006-01-02", sel.FilterDate, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: filterDate %q: %v", ErrInvalidSelector, sel.FilterDate, err)
		}
		return r.articles.FindIDsByDateRange(ctx, day, day.AddDate(0, 0, 1))
	case sel.RunToday:
		now := r.now().UTC()
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return r.articles.FindIDsByDateRange(ctx, day, day.AddDate(0, 0, 1))
	default:
		return nil, fmt.Errorf("%w: one of ids, filterDate or runToday is required", ErrInvalidSelector)
	}
}

// Run validates every selected record and aggregates the outcomes.
// Individual record failures never abort the batch; only a selector
// error returns before any work.
func (r *Repairer) Run(ctx context.Context, sel Selector) (models.BatchSummary, error) {
	ids, err := r.Resolve(ctx, sel)
	if err != nil {
		return models.BatchSummary{}, err
	}

	batchID := uuid.NewString()
	// 알림 실패는 배치 진행을 막지 않는다.
	_ = r.notifier.BatchStarted(ctx, batchID, len(ids))

	reports := make([]models.ValidationReport, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrent)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			recCtx, cancel := context.WithTimeout(gctx, r.perRecordTimeout)
			defer cancel()
			reports[i] = r.validator.Validate(recCtx, id)
			return nil
		})
	}
	_ = g.Wait()

	summary := models.BatchSummary{Total: len(ids)}
	for _, report := range reports {
		switch {
		case report.AllPassed():
			summary.Passed++
		case report.AnyFailed():
			summary.Failed++
			summary.Details = append(summary.Details, report)
		default:
			summary.Regenerated++
			summary.Details = append(summary.Details, report)
		}
	}

	_ = r.notifier.BatchFinished(ctx, batchID, summary)
	return summary, nil
}
