package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	BatchStarted     EventType = "batch.started"
	BatchFinished    EventType = "batch.finished"
	ArticleGenerated EventType = "article.generated"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// NewBaseEvent 공통 필드를 채운 BaseEvent를 생성
func NewBaseEvent(t EventType, source string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    source,
		Version:   "1",
	}
}

// BatchStartedEvent 복구 배치 시작 이벤트
type BatchStartedEvent struct {
	BaseEvent
	BatchID string `json:"batch_id"`
	Total   int    `json:"total"`
}

// BatchFinishedEvent 복구 배치 완료 이벤트
type BatchFinishedEvent struct {
	BaseEvent
	BatchID     string   `json:"batch_id"`
	Total       int      `json:"total"`
	Passed      int      `json:"passed"`
	Regenerated int      `json:"regenerated"`
	Failed      int      `json:"failed"`
	FailedIDs   []string `json:"failed_ids,omitempty"`
	Summary     string   `json:"summary"`
}

// ArticleGeneratedEvent 아티클 생성 완료 이벤트
type ArticleGeneratedEvent struct {
	BaseEvent
	ArticleID      primitive.ObjectID `json:"article_id"`
	DifficultyTier string             `json:"difficulty_tier"`
	Genre          string             `json:"genre"`
	Topic          string             `json:"topic"`
}

// SerializeEvent 이벤트를 JSON으로 직렬화하고 타입 정보 반환
func SerializeEvent(event interface{}) ([]byte, EventType, error) {
	var eventType EventType

	switch e := event.(type) {
	case BatchStartedEvent:
		eventType = e.Type
	case BatchFinishedEvent:
		eventType = e.Type
	case ArticleGeneratedEvent:
		eventType = e.Type
	default:
		return nil, "", fmt.Errorf("unknown event type: %T", event)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal event: %w", err)
	}

	return data, eventType, nil
}

// DeserializeEvent 이벤트 타입에 따라 적절한 구조체로 역직렬화
func DeserializeEvent(eventType EventType, data []byte) (interface{}, error) {
	var event interface{}

	switch eventType {
	case BatchStarted:
		event = &BatchStartedEvent{}
	case BatchFinished:
		event = &BatchFinishedEvent{}
	case ArticleGenerated:
		event = &ArticleGeneratedEvent{}
	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return event, nil
}
