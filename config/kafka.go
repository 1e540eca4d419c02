package config

import (
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// GetWriter returns a writer for the gala domain event topic.
func GetWriter() (*kafka.Writer, error) {
	broker := Env().KafkaBroker
	if broker == "" {
		return nil, fmt.Errorf("KAFKA_BROKER environment variable not set")
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  Env().KafkaTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
	}, nil
}
