package utils

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

var kafkaWriter *kafka.Writer

// InitializeKafka sets up the shared producer. Missing configuration is not
// fatal: the engine works without the event stream, publishes become no-ops.
func InitializeKafka() {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		log.Println("⚠️ KAFKA_BROKERS not set, event publishing disabled")
		return
	}

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "profit-sharing.events"
	}

	kafkaWriter = &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
	}

	log.Println("✅ Kafka producer ready, topic:", topic)
}

// PublishEvent sends a JSON payload keyed by key to the configured topic
func PublishEvent(ctx context.Context, key string, payload interface{}) error {
	if kafkaWriter == nil {
		return nil
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return kafkaWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

// CloseKafka flushes and closes the producer
func CloseKafka() {
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			log.Printf("⚠️ Kafka close error: %v", err)
		}
	}
}
