package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"

	"github.com/segmentio/kafka-go"
	"taskboard/internal/cache"
	"taskboard/internal/models"
	"taskboard/pkg/logger"
)

// MessageReader is the part of *kafka.Reader the worker needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewReader returns a consumer-group reader for the task events topic.
func NewReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// Worker consumes the task change feed: every event invalidates the list
// cached by the instance that produced it and is written to the audit log.
type Worker struct {
	reader    MessageReader
	cache     *cache.TaskCache
	processed atomic.Int64
}

// New returns a worker reading from reader. c may be nil (no cache to invalidate).
func New(reader MessageReader, c *cache.TaskCache) *Worker {
	return &Worker{reader: reader, cache: c}
}

// Processed returns the number of events handled successfully.
func (w *Worker) Processed() int64 { return w.processed.Load() }

// Run consumes until ctx is cancelled. It closes the reader on return.
func (w *Worker) Run(ctx context.Context) error {
	defer w.reader.Close()
	logger.Info(ctx, "Kafka consumer started")
	for {
		msg, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			continue
		}
		if err := w.handleMessage(ctx, msg.Value); err != nil {
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
			// Commit anyway to avoid poison pill blocking the partition
			_ = w.reader.CommitMessages(ctx, msg)
			continue
		}
		if err := w.reader.CommitMessages(ctx, msg); err != nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
		}
		w.processed.Add(1)
	}
}

func (w *Worker) handleMessage(ctx context.Context, payload []byte) error {
	var ev models.TaskEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	switch ev.Action {
	case models.ActionCreated, models.ActionUpdated, models.ActionDeleted:
	default:
		logger.Warn(ctx, "Worker skipped unknown action", "action", ev.Action, "task_id", ev.TaskID)
		return nil
	}
	w.cache.InvalidateInstance(ctx, ev.Instance)
	logger.Info(ctx, "Task event",
		"action", ev.Action,
		"task_id", ev.TaskID,
		"instance", ev.Instance,
		"occurred_at", ev.OccurredAt)
	return nil
}
