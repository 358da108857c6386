package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/usecase"
)

// RabbitMQProducer publishes outreach events for downstream consumers
// (CRM sync, analytics) after every dispatch attempt.
type RabbitMQProducer struct {
	Ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishOutreach(ctx context.Context, evt usecase.OutreachEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal outreach event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		OutreachKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish outreach event: %w", err)
	}

	return nil
}
