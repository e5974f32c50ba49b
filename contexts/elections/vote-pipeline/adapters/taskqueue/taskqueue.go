package taskqueueadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"votehub/contexts/elections/vote-pipeline/application/workers"
	"votehub/contexts/elections/vote-pipeline/domain/entities"
	"votehub/contexts/elections/vote-pipeline/ports"
	platformqueue "votehub/internal/platform/queue"
)

// VoteQueue adapts the shared platform queue to the pipeline's port,
// owning the wire encoding of vote tasks.
type VoteQueue struct {
	queue *platformqueue.Queue
}

func NewVoteQueue(queue *platformqueue.Queue) *VoteQueue {
	return &VoteQueue{queue: queue}
}

func (q *VoteQueue) EnqueueVote(ctx context.Context, task entities.VoteTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encode vote task: %w", err)
	}
	return q.queue.Enqueue(ctx, platformqueue.Task{
		ID:         task.TrackingID,
		Payload:    payload,
		EnqueuedAt: task.EnqueuedAt,
	})
}

func (q *VoteQueue) Depth(_ context.Context) (int, error) {
	return q.queue.Depth(), nil
}

// NewConsumer wires the vote recorder behind the platform retry policy. A
// payload that fails to decode is not retried; it can never succeed.
func NewConsumer(queue *platformqueue.Queue, recorder *workers.VoteRecorder, logger *slog.Logger) platformqueue.Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return platformqueue.Consumer{
		Queue:  queue,
		Policy: platformqueue.RetryPolicy{},
		Handle: func(ctx context.Context, task platformqueue.Task) error {
			voteTask, err := decodeVoteTask(task)
			if err != nil {
				logger.Error("discarding undecodable vote task",
					"event", "vote_task_decode_failed",
					"module", "elections/vote-pipeline",
					"layer", "adapter",
					"task_id", task.ID,
					"error", err.Error(),
				)
				return nil
			}
			return recorder.Record(ctx, voteTask)
		},
		OnPermanentFailure: func(ctx context.Context, task platformqueue.Task, cause error) {
			voteTask, err := decodeVoteTask(task)
			if err != nil {
				return
			}
			recorder.MarkFailed(ctx, voteTask, cause)
		},
		Logger: logger,
	}
}

func decodeVoteTask(task platformqueue.Task) (entities.VoteTask, error) {
	var voteTask entities.VoteTask
	if err := json.Unmarshal(task.Payload, &voteTask); err != nil {
		return entities.VoteTask{}, fmt.Errorf("decode vote task payload: %w", err)
	}
	return voteTask, nil
}

var _ ports.VoteQueue = (*VoteQueue)(nil)
