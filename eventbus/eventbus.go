package eventbus

import (
	"context"
	"encoding/json"
)

// Topic은 기본 토픽 이름과 DLQ 토픽 이름을 관리합니다.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string {
	return t.base
}

// DLQ는 DLQ 토픽 이름을 반환합니다 (예: my_topic.dlq).
func (t Topic) DLQ() string {
	return t.base + ".dlq"
}

// Event는 Kafka 메시지의 페이로드로 사용되는 구조체입니다.
type Event struct {
	ID        string          `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	LastError string          `json:"last_error,omitempty"`
}

// EventBus 인터페이스는 이벤트 발행의 추상화를 정의합니다.
// 이 서비스는 알림 발행만 수행하므로 구독 측 API는 두지 않습니다.
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close()
}
