package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/storefront/storefront-service/internal/dto"
)

// Producer publishes catalog and account domain events for downstream
// consumers (search indexers, analytics).
type Producer interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

type KafkaProducer struct {
	conn *kafka.Conn
}

func CreateKafkaProducer(conn *kafka.Conn) Producer {
	return &KafkaProducer{conn: conn}
}

func (p *KafkaProducer) Publish(ctx context.Context, eventType string, data interface{}) error {
	kafkaMsg := dto.KafkaMessage{
		EventType: eventType,
		Data:      data,
	}

	jsonMsg, err := json.Marshal(kafkaMsg)
	if err != nil {
		return fmt.Errorf("failed to marshal Kafka message: %w", err)
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		err = p.writeKafkaMessage(jsonMsg)
		if err == nil {
			break
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "Publish").Str("event_type", eventType).Msg("")
		time.Sleep(time.Second * time.Duration(i+1))
	}

	if err != nil {
		return fmt.Errorf("failed to write Kafka message after %d attempts: %w", maxRetries, err)
	}

	return nil
}

func (p *KafkaProducer) writeKafkaMessage(msg []byte) error {
	_, err := p.conn.WriteMessages(
		kafka.Message{
			Value: msg,
		},
	)
	return err
}
