package dal

import (
	"log"

	"github.com/streadway/amqp"

	"pg-bridge-api/internal/config"
)

const (
	OrderStatusQueue      = "order_status"
	OrderStatusRoutingKey = "order.status"
)

var RabbitConn *amqp.Connection
var RabbitCh *amqp.Channel

// InitRabbitMQ declares the order events exchange and the order_status queue.
// It is a no-op when rabbitmq.enabled is false.
func InitRabbitMQ() {
	c := config.C.RabbitMQ
	if !c.Enabled {
		log.Println("[RabbitMQ] disabled, order status events are not published")
		return
	}
	conn, err := amqp.Dial(c.URL)
	if err != nil {
		log.Fatalf("rabbitmq dial failed: %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbitmq channel failed: %v", err)
	}

	if err := ch.ExchangeDeclare(c.Exchange, "topic", true, false, false, false, nil); err != nil {
		log.Fatalf("exchange declare failed: %v", err)
	}
	if _, err := ch.QueueDeclare(OrderStatusQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare %s failed: %v", OrderStatusQueue, err)
	}
	if err := ch.QueueBind(OrderStatusQueue, OrderStatusRoutingKey, c.Exchange, false, nil); err != nil {
		log.Fatalf("queue bind %s failed: %v", OrderStatusQueue, err)
	}

	RabbitConn = conn
	RabbitCh = ch
	log.Printf("[RabbitMQ] ✅ 初始化成功 → exchange=%s queue=%s", c.Exchange, OrderStatusQueue)
}

func CloseRabbitMQ() {
	if RabbitCh != nil {
		_ = RabbitCh.Close()
	}
	if RabbitConn != nil {
		_ = RabbitConn.Close()
	}
}
