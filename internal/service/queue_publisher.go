package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/wine-cellar/internal/model"
	"github.com/iliyamo/wine-cellar/internal/queue"
)

// EventPublisher receives placement events after their transaction has
// committed.  Implementations must not block for long; errors are
// logged by the caller and never fail the request.
type EventPublisher interface {
	PublishWineMoved(ctx context.Context, ev queue.WineMovedEvent) error
}

// publishTimeout bounds both the dial and the publish of one event.
const publishTimeout = 5 * time.Second

// AMQPPublisher publishes events to the wine.moved queue.  Each publish
// dials its own connection, which suits the low event rate of a
// personal cellar.
type AMQPPublisher struct {
	URL string
}

// PublishWineMoved declares the durable queue and publishes ev as a
// persistent JSON message.
func (p AMQPPublisher) PublishWineMoved(ctx context.Context, ev queue.WineMovedEvent) error {
	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(publishTimeout)})
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue.WineMovedQueue, // name
		true,                 // durable
		false,                // autoDelete
		false,                // exclusive
		false,                // noWait
		nil,                  // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx,
		"",                   // default exchange
		queue.WineMovedQueue, // routing key = queue name
		false,                // mandatory
		false,                // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
}

// newMovedEvent converts committed change records into an event.
func newMovedEvent(kind, userID, wineID string, changes []model.Change) queue.WineMovedEvent {
	ev := queue.WineMovedEvent{
		Kind:    kind,
		UserID:  userID,
		WineID:  wineID,
		Changes: make([]queue.MovedWine, 0, len(changes)),
		MovedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, c := range changes {
		ev.Changes = append(ev.Changes, queue.MovedWine{
			WineID:   c.WineID,
			CellarID: c.CellarID,
			Row:      c.Row,
			Column:   c.Column,
		})
	}
	return ev
}
