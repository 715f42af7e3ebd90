package queue

import (
    "context"
    "encoding/json"
    "errors"
    "time"

    "github.com/rs/zerolog/log"
    "github.com/segmentio/kafka-go"
)

// KafkaPublisher publishes jobs to a topic.  The job kind is used as the
// message key.
type KafkaPublisher struct {
    writer *kafka.Writer
}

// NewKafkaPublisher builds a writer for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
    return &KafkaPublisher{writer: &kafka.Writer{
        Addr:                   kafka.TCP(brokers...),
        Topic:                  topic,
        Balancer:               &kafka.LeastBytes{},
        AllowAutoTopicCreation: true,
    }}
}

// Publish writes job synchronously.
func (p *KafkaPublisher) Publish(ctx context.Context, job Job) error {
    body, err := json.Marshal(job)
    if err != nil {
        return err
    }
    if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(job.Kind), Value: body}); err != nil {
        log.Error().Err(err).Str("kind", job.Kind).Msg("kafka: publish failed")
        return err
    }
    return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error { return p.writer.Close() }

// ConsumeKafka reads topic as part of group and hands each message to
// handle.  Offsets are committed after handling whether or not the
// handler failed, matching the reject-without-requeue policy of the
// RabbitMQ consumer.  It returns when ctx is cancelled.
func ConsumeKafka(ctx context.Context, brokers []string, topic, group string, handle Handler) error {
    r := kafka.NewReader(kafka.ReaderConfig{
        Brokers:  brokers,
        GroupID:  group,
        Topic:    topic,
        MinBytes: 1,
        MaxBytes: 10e6, // 10MB
    })
    defer r.Close()

    for {
        msg, err := r.FetchMessage(ctx)
        if err != nil {
            if ctx.Err() != nil || errors.Is(err, context.Canceled) {
                return ctx.Err()
            }
            log.Error().Err(err).Msg("job-consumer: kafka fetch failed")
            if !sleepCtx(ctx, time.Second) {
                return ctx.Err()
            }
            continue
        }
        if err := dispatch(ctx, msg.Value, handle); err != nil {
            log.Error().Err(err).Int64("offset", msg.Offset).Msg("job-consumer: handle message failed")
        }
        if err := r.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
            log.Error().Err(err).Msg("job-consumer: kafka commit failed")
        }
    }
}
