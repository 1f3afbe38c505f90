// Package notify publishes batch progress to the event bus in a
// human-readable form. Operators follow batch runs through these
// messages, so the summary text itemizes every record that needed work.
package notify

import (
	"context"
	"fmt"
	"strings"

	"readleaf/eventbus"
	"readleaf/events"
	"readleaf/models"
)

// Notifier announces batch lifecycle transitions. Implementations must
// tolerate being called concurrently.
type Notifier interface {
	BatchStarted(ctx context.Context, batchID string, total int) error
	BatchFinished(ctx context.Context, batchID string, summary models.BatchSummary) error
	ArticleGenerated(ctx context.Context, article *models.Article) error
}

// FormatSummary renders a batch summary for operators.
func FormatSummary(s models.BatchSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "validated %d article(s): %d passed, %d regenerated, %d failed",
		s.Total, s.Passed, s.Regenerated, s.Failed)
	for _, report := range s.Details {
		for _, o := range report.Outcomes {
			switch o.Status {
			case models.OutcomeRegenerated:
				fmt.Fprintf(&b, "\n- %s: regenerated %s", report.ArticleID, o.Task)
			case models.OutcomeFailed:
				fmt.Fprintf(&b, "\n- %s: %s failed (%s)", report.ArticleID, o.Task, o.ErrorCode)
			}
		}
	}
	return b.String()
}

// BusNotifier publishes lifecycle events to a kafka topic.
type BusNotifier struct {
	bus    eventbus.EventBus
	topics struct {
		batch   eventbus.Topic
		article eventbus.Topic
	}
	source string
}

func NewBusNotifier(bus eventbus.EventBus, source string) *BusNotifier {
	n := &BusNotifier{bus: bus, source: source}
	n.topics.batch = eventbus.TopicBatchEvents
	n.topics.article = eventbus.TopicArticleEvents
	return n
}

func (n *BusNotifier) BatchStarted(ctx context.Context, batchID string, total int) error {
	evt := events.BatchStartedEvent{
		BaseEvent: events.NewBaseEvent(events.BatchStarted, n.source),
		BatchID:   batchID,
		Total:     total,
	}
	return n.publish(ctx, n.topics.batch, evt.ID, evt)
}

func (n *BusNotifier) BatchFinished(ctx context.Context, batchID string, summary models.BatchSummary) error {
	evt := events.BatchFinishedEvent{
		BaseEvent:   events.NewBaseEvent(events.BatchFinished, n.source),
		BatchID:     batchID,
		Total:       summary.Total,
		Passed:      summary.Passed,
		Regenerated: summary.Regenerated,
		Failed:      summary.Failed,
		Summary:     FormatSummary(summary),
	}
	for _, report := range summary.Details {
		if report.AnyFailed() {
			evt.FailedIDs = append(evt.FailedIDs, report.ArticleID)
		}
	}
	return n.publish(ctx, n.topics.batch, evt.ID, evt)
}

func (n *BusNotifier) ArticleGenerated(ctx context.Context, article *models.Article) error {
	evt := events.ArticleGeneratedEvent{
		BaseEvent:      events.NewBaseEvent(events.ArticleGenerated, n.source),
		ArticleID:      article.ID,
		DifficultyTier: article.DifficultyTier,
		Genre:          article.Genre,
		Topic:          article.Topic,
	}
	return n.publish(ctx, n.topics.article, evt.ID, evt)
}

func (n *BusNotifier) publish(ctx context.Context, topic eventbus.Topic, id string, payload any) error {
	data, _, err := events.SerializeEvent(payload)
	if err != nil {
		return err
	}
	return n.bus.Publish(ctx, topic.Base(), eventbus.Event{ID: id, Payload: data})
}

// NopNotifier is used when no brokers are configured.
type NopNotifier struct{}

func (NopNotifier) BatchStarted(ctx context.Context, batchID string, total int) error { return nil }

func (NopNotifier) BatchFinished(ctx context.Context, batchID string, summary models.BatchSummary) error {
	return nil
}

func (NopNotifier) ArticleGenerated(ctx context.Context, article *models.Article) error { return nil }
