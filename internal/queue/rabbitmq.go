package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog/log"
)

// RabbitPublisher publishes jobs to a durable queue through the default
// exchange.  Each publish opens its own connection; the volume is one
// message per order or registration.
type RabbitPublisher struct {
    url   string
    queue string
}

// NewRabbitPublisher creates a publisher for queue on the broker at url.
func NewRabbitPublisher(url, queue string) *RabbitPublisher {
    return &RabbitPublisher{url: url, queue: queue}
}

// Publish sends job as a persistent JSON message.  Errors are logged and
// returned so the caller can choose to ignore them.
func (p *RabbitPublisher) Publish(ctx context.Context, job Job) error {
    conn, err := amqp.Dial(p.url)
    if err != nil {
        log.Error().Err(err).Msg("rabbitmq: dial failed")
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Error().Err(err).Msg("rabbitmq: channel open failed")
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        p.queue, // name
        true,    // durable
        false,   // autoDelete
        false,   // exclusive
        false,   // noWait
        nil,     // args
    ); err != nil {
        log.Error().Err(err).Str("queue", p.queue).Msg("rabbitmq: queue declare failed")
        return err
    }

    body, err := json.Marshal(job)
    if err != nil {
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    time.Now().UTC(),
        Type:         job.Kind,
        Body:         body,
    }

    if err := ch.PublishWithContext(ctx,
        "",      // default exchange
        p.queue, // routing key = queue name
        false,   // mandatory
        false,   // immediate
        pub,
    ); err != nil {
        log.Error().Err(err).Str("kind", job.Kind).Msg("rabbitmq: publish failed")
        return err
    }
    return nil
}

// ConsumeRabbit connects to the broker, declares queue (durable) and
// hands every message to handle.  It runs a reconnect loop with
// exponential back-off and returns only when ctx is cancelled.  Messages
// that fail are rejected without requeue to avoid tight loops.
func ConsumeRabbit(ctx context.Context, url, queue string, handle Handler) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Warn().Err(err).Dur("retry_in", backoff).Msg("job-consumer: failed to dial broker")
            if !sleepCtx(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = consumeLoop(ctx, conn, queue, handle)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warn().Err(err).Msg("job-consumer: consume loop ended; reconnecting")
        if !sleepCtx(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, queue string, handle Handler) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warn().Err(err).Msg("job-consumer: set QoS failed")
    }

    if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := dispatch(ctx, d.Body, handle); err != nil {
                log.Error().Err(err).Msg("job-consumer: handle message failed")
                _ = d.Nack(false, false) // reject, do not requeue
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// dispatch decodes body and runs handle on it.
func dispatch(ctx context.Context, body []byte, handle Handler) error {
    job, err := decodeJob(body)
    if err != nil {
        return err
    }
    return handle(ctx, job)
}

// sleepCtx waits for d or until ctx is done; it reports whether the full
// duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
