package mq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"pg-bridge-api/internal/dal"
)

// Publisher sends JSON events to the order events exchange, routing key = topic.
type Publisher struct {
	ch       *amqp.Channel
	exchange string
}

func NewPublisher(ch *amqp.Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// NewDefaultPublisher uses the channel opened by dal.InitRabbitMQ.
func NewDefaultPublisher(exchange string) *Publisher {
	return NewPublisher(dal.RabbitCh, exchange)
}

func (p *Publisher) Publish(topic string, msg any) error {
	if p == nil || p.ch == nil {
		return nil
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s event failed: %w", topic, err)
	}
	return p.ch.Publish(p.exchange, topic, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         b,
	})
}
