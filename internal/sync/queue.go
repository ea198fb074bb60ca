package sync

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrQueueFull is returned by Publish when the topic buffer is saturated.
var ErrQueueFull = errors.New("synchronization queue is full")

// Queue is the in-process stand-in for the message broker: one topic, one
// consumer goroutine, at-least-once delivery. A message whose consumption
// fails is redelivered after a delay, up to maxAttempts.
type Queue struct {
	consumer *Consumer
	messages chan delivery
	logger   *slog.Logger

	maxAttempts int
	retryDelay  time.Duration
}

type delivery struct {
	msg      BookSynchronization
	attempts int
}

func NewQueue(consumer *Consumer, logger *slog.Logger) *Queue {
	return &Queue{
		consumer:    consumer,
		messages:    make(chan delivery, 256),
		logger:      logger,
		maxAttempts: 5,
		retryDelay:  2 * time.Second,
	}
}

// Publish enqueues a synchronization request without blocking the caller.
func (q *Queue) Publish(ctx context.Context, isbn string) error {
	select {
	case q.messages <- delivery{msg: BookSynchronization{ISBN: isbn}}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run delivers messages to the consumer until ctx is cancelled.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case d := <-q.messages:
			q.deliver(ctx, d)
		}
	}
}

func (q *Queue) deliver(ctx context.Context, d delivery) {
	err := q.consumer.Consume(ctx, d.msg)
	if err == nil {
		return
	}

	d.attempts++
	if d.attempts >= q.maxAttempts {
		q.logger.Error("dropping synchronization request after repeated failures",
			"isbn", d.msg.ISBN, "attempts", d.attempts, "error", err)
		return
	}
	q.logger.Warn("synchronization failed, scheduling redelivery",
		"isbn", d.msg.ISBN, "attempt", d.attempts, "error", err)
	q.redeliver(d)
}

func (q *Queue) redeliver(d delivery) {
	time.AfterFunc(q.retryDelay, func() {
		select {
		case q.messages <- d:
		default:
			q.logger.Error("queue full, dropping redelivery", "isbn", d.msg.ISBN)
		}
	})
}
