package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iliyamo/eventdeck/internal/queue"
)

// ActivityPublisher sends activity events to downstream consumers.
// Implementations must be safe for concurrent use.
type ActivityPublisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent) error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.ActivityEvent) error { return nil }

// AMQPPublisher publishes activity events to the durable "activity"
// queue. It dials per publish so a broker restart never leaves it holding
// a dead connection; errors are logged and returned so the caller can
// choose to ignore them. Messages are marked as persistent.
type AMQPPublisher struct {
	URL string
	Log zerolog.Logger
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.ActivityEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		p.Log.Error().Err(err).Msg("rabbitmq: marshal event failed")
		return err
	}

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.Log.Warn().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.Warn().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queue.ActivityQueue, // name
		true,                // durable
		false,               // autoDelete
		false,               // exclusive
		false,               // noWait
		nil,                 // args
	); err != nil {
		p.Log.Warn().Err(err).Msg("rabbitmq: queue declare failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		MessageId:    ev.ID,
		Type:         ev.Type,
		Timestamp:    ev.OccurredAt,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",                  // default exchange
		queue.ActivityQueue, // routing key = queue name
		false,               // mandatory
		false,               // immediate
		pub,
	); err != nil {
		p.Log.Warn().Err(err).Str("type", ev.Type).Msg("rabbitmq: publish failed")
		return err
	}
	return nil
}

// notify publishes ev in the background so request latency never depends
// on the broker.
func notify(pub ActivityPublisher, log zerolog.Logger, ev queue.ActivityEvent) {
	if pub == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pub.Publish(ctx, ev); err != nil {
			log.Debug().Err(err).Str("type", ev.Type).Msg("activity event dropped")
		}
	}()
}
