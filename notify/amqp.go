package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RoutingKey is used for every BookingConfirmed message.
const RoutingKey = "booking.confirmed"

// Publisher is the part of *amqp.Channel used by AMQPNotifier.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPNotifier publishes one message per recipient to a topic exchange. The
// chat front-end consumes them and delivers the text.
type AMQPNotifier struct {
	mu       sync.Mutex
	pub      Publisher
	exchange string
}

func NewAMQPNotifier(pub Publisher, exchange string) *AMQPNotifier {
	return &AMQPNotifier{pub: pub, exchange: exchange}
}

// DialAMQP connects to the broker and declares the exchange. The returned
// close func releases the channel and the connection.
func DialAMQP(url, exchange string) (*AMQPNotifier, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	closeFn := func() error {
		if err := ch.Close(); err != nil {
			conn.Close()
			return err
		}
		return conn.Close()
	}
	return NewAMQPNotifier(ch, exchange), closeFn, nil
}

func (n *AMQPNotifier) Notify(ctx context.Context, recipientID int64, ev BookingConfirmed) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    ev.At,
		Type:         RoutingKey,
		Headers:      amqp.Table{"recipient_id": strconv.FormatInt(recipientID, 10)},
		Body:         body,
	}

	// amqp channels are not safe for concurrent publishing
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pub.PublishWithContext(ctx, n.exchange, RoutingKey, false, false, msg)
}
