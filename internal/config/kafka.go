package config

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// batchTimeout bounds how long a synchronous write waits for a batch to
// fill; order events are written one at a time.
const batchTimeout = 10 * time.Millisecond

func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{}, // Balancer for selecting partition
		BatchTimeout:           batchTimeout,
		AllowAutoTopicCreation: true,
	}
}
