package queue

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"
)

// Publisher emits auth events to RabbitMQ.  A nil Publisher (or one with an
// empty URL) is a no-op, so the broker is strictly optional: event delivery
// must never decide the fate of a login or registration.
type Publisher struct {
    url string
}

// NewPublisher returns a Publisher for the given AMQP URL, or nil when the
// URL is empty.
func NewPublisher(url string) *Publisher {
    if url == "" {
        return nil
    }
    return &Publisher{url: url}
}

// Publish marshals the event and delivers it to the named queue.  The
// connection is dialed per publish; auth events are rare enough that a
// persistent channel is not worth the reconnect bookkeeping.  Errors are
// logged and returned so the caller can choose to ignore them.
func (p *Publisher) Publish(ctx context.Context, queueName string, event any) error {
    if p == nil || p.url == "" {
        return nil
    }
    conn, err := amqp.Dial(p.url)
    if err != nil {
        logrus.Warnf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        logrus.Warnf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
        logrus.Warnf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    body, err := json.Marshal(event)
    if err != nil {
        logrus.Warnf("rabbitmq: marshal event failed: %v", err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
        logrus.Warnf("rabbitmq: publish failed: %v", err)
        return err
    }
    return nil
}
