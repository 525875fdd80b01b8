package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/streadway/amqp"

	"pg-bridge-api/internal/dal"
	"pg-bridge-api/internal/event"
)

// EventSink stores one decoded order.status event.
type EventSink interface {
	Write(ctx context.Context, e event.OrderStatusEvent) error
}

// StartConsumers drains the order_status queue into sink until the channel closes.
func StartConsumers(sink EventSink) {
	if dal.RabbitCh == nil {
		log.Println("[MQ] RabbitMQ channel not initialized, event log consumer not started")
		return
	}
	msgs, err := dal.RabbitCh.Consume(dal.OrderStatusQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Printf("❌ [MQ] consume %s failed: %v", dal.OrderStatusQueue, err)
		return
	}
	log.Printf("[MQ] consuming %s", dal.OrderStatusQueue)
	for d := range msgs {
		handleOrderStatus(sink, d)
	}
}

func handleOrderStatus(sink EventSink, d amqp.Delivery) {
	ok := HandleOrderStatus(sink, d.Body)
	if ok {
		_ = d.Ack(false)
		return
	}
	_ = d.Nack(false, false)
}

// HandleOrderStatus decodes and stores one message, reporting whether it can be acked.
func HandleOrderStatus(sink EventSink, body []byte) bool {
	var e event.OrderStatusEvent
	if err := json.Unmarshal(body, &e); err != nil {
		log.Printf("❌ [MQ] order.status unmarshal err: %v", err)
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sink.Write(ctx, e); err != nil {
		log.Printf("❌ [MQ] order.status write failed: reference=%s err=%v", e.ReferenceNo, err)
		return false
	}
	return true
}
