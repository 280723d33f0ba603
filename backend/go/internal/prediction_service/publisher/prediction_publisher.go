package publisher

import (
	"KneeHeal/backend/go/internal/models"
	"KneeHeal/backend/go/pkg/logger"
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// PredictionPublisher 把预测事件发送到 Kafka, 以记录键作为消息键。
type PredictionPublisher struct {
	writer messageWriter
	topic  string
	logger *logger.Logger
}

// NewPredictionPublisher creates a new PredictionPublisher.
func NewPredictionPublisher(writer *kafka.Writer, logger *logger.Logger) *PredictionPublisher {
	return &PredictionPublisher{writer: writer, topic: writer.Topic, logger: logger}
}

func (p *PredictionPublisher) Name() string { return "kafka" }

// Record 序列化事件并同步写入 Kafka。
func (p *PredictionPublisher) Record(ctx context.Context, event *models.PredictionEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal prediction event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.RecordKey),
		Value: msgBytes,
	})
	if err != nil {
		p.logger.WithError(models.ErrorInfo{Message: err.Error(), Type: "kafka_error"}).
			WithPayload(map[string]interface{}{"topic": p.topic}).
			Error("Failed to write prediction event to Kafka")
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}

// Close closes the underlying Kafka writer.
func (p *PredictionPublisher) Close() error {
	return p.writer.Close()
}
