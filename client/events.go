package client

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type EventType string

const (
	EventNoteSaved        EventType = "note.saved"
	EventFavoriteSet      EventType = "favorite.set"
	EventFavoriteCleared  EventType = "favorite.cleared"
	EventGalaSubmitted    EventType = "gala.submitted"
	EventGalaLocked       EventType = "gala.locked"
	EventGalaUnlocked     EventType = "gala.unlocked"
	EventGalaConfigChange EventType = "gala.configuration_changed"
)

type Event struct {
	Id         string         `json:"id"`
	Type       EventType      `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	GalaId     int            `json:"gala_id"`
	JudgeId    *int           `json:"judge_id,omitempty"`
	UserId     int            `json:"user_id"`
	Payload    map[string]any `json:"payload,omitempty"`
}

func NewEvent(eventType EventType, galaId int, userId int) *Event {
	return &Event{
		Id:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		GalaId:     galaId,
		UserId:     userId,
		Payload:    map[string]any{},
	}
}

func (e *Event) WithJudge(judgeId int) *Event {
	e.JudgeId = &judgeId
	return e
}

func (e *Event) With(key string, value any) *Event {
	e.Payload[key] = value
	return e
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes domain events keyed by gala id so one gala's events stay ordered.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(event.GalaId)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.Id)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *Event) error { return nil }
