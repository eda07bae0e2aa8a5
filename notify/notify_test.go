package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-kit/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"github.com/dzoniops/booking-service/calendar"
)

func event() BookingConfirmed {
	r := calendar.DateRange{
		Start: calendar.Day(2024, time.December, 1),
		End:   calendar.Day(2024, time.December, 5),
	}
	return BookingConfirmed{EventID: "ev-1", BookingID: 3, UnitID: 1, UnitName: "Cabin", Range: r, Period: r.String(), UserID: 9}
}

func TestFanoutSwallowsFailures(t *testing.T) {
	var got []int64
	n := NotifierFunc(func(_ context.Context, id int64, _ BookingConfirmed) error {
		if id == 2 {
			return errors.New("blocked the bot")
		}
		got = append(got, id)
		return nil
	})
	var buf bytes.Buffer
	delivered := Fanout(context.Background(), log.NewLogfmtLogger(&buf), n, []int64{1, 2, 3, 1}, event())

	require.Equal(t, 2, delivered)
	require.Equal(t, []int64{1, 3}, got)
	require.Contains(t, buf.String(), "notification not delivered")
	require.Contains(t, buf.String(), "recipient=2")
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	err := LogNotifier{Logger: log.NewLogfmtLogger(&buf)}.Notify(context.Background(), 5, event())
	require.NoError(t, err)
	require.Contains(t, buf.String(), `period="01.12.2024 - 05.12.2024"`)
}

type recordingPublisher struct {
	exchange, key string
	msgs          []amqp.Publishing
	err           error
}

func (p *recordingPublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	p.exchange, p.key = exchange, key
	p.msgs = append(p.msgs, msg)
	return p.err
}

func TestAMQPNotifier(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewAMQPNotifier(pub, "booking.events")

	require.NoError(t, n.Notify(context.Background(), 42, event()))
	require.Equal(t, "booking.events", pub.exchange)
	require.Equal(t, RoutingKey, pub.key)
	require.Len(t, pub.msgs, 1)

	msg := pub.msgs[0]
	require.Equal(t, "application/json", msg.ContentType)
	require.Equal(t, "42", msg.Headers["recipient_id"])
	require.NotEmpty(t, msg.MessageId)

	var ev BookingConfirmed
	require.NoError(t, json.Unmarshal(msg.Body, &ev))
	require.Equal(t, uint(3), ev.BookingID)
	require.Equal(t, "Cabin", ev.UnitName)

	pub.err = errors.New("channel closed")
	require.Error(t, n.Notify(context.Background(), 42, event()))
}
