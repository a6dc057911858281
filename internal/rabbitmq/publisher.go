package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/lib/sl"
)

// Publisher публикует события биллинга в exchange.
type Publisher struct {
	ch  *amqp.Channel
	log *slog.Logger
}

// NewPublisher создаёт новый Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel, log *slog.Logger) *Publisher {
	return &Publisher{ch: ch, log: log}
}

// Publish сериализует payload в JSON и отправляет его с заданным routing key.
func (p *Publisher) Publish(routingKey string, payload any) error {
	const op = "rabbitmq.Publish"

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		BillingExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// NopPublisher используется, когда RabbitMQ выключен конфигом:
// события аудита попадают только в лог.
type NopPublisher struct {
	log *slog.Logger
}

// NewNopPublisher создаёт publisher-заглушку.
func NewNopPublisher(log *slog.Logger) *NopPublisher {
	return &NopPublisher{log: log}
}

// Publish пишет событие в лог и всегда завершается успешно.
func (p *NopPublisher) Publish(routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		p.log.Warn("failed to marshal audit event", sl.Err(err))
		return nil
	}
	p.log.Info("billing event", slog.String("routing_key", routingKey), slog.String("payload", string(body)))
	return nil
}
