// Package jobqueue adapts the ports.JobQueue interface to a Redis list used
// as a simple FIFO work queue (spec §6's "process_scan_ocr(scan_id)" job).
package jobqueue

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
)

type Queue struct {
	client    *redis.Client
	keyPrefix string
}

func New(client *redis.Client, keyPrefix string) *Queue {
	if keyPrefix == "" {
		keyPrefix = "olympiadqr:jobs:"
	}
	return &Queue{client: client, keyPrefix: keyPrefix}
}

type envelope struct {
	TaskID  string                 `json:"task_id"`
	Payload map[string]interface{} `json:"payload"`
}

// Enqueue pushes payload onto the jobName list and returns a task id the
// caller can correlate in logs.
func (q *Queue) Enqueue(ctx context.Context, jobName string, payload map[string]interface{}) (string, error) {
	taskID := uuid.NewString()

	body, err := json.Marshal(envelope{TaskID: taskID, Payload: payload})
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to marshal job payload")
	}

	if err := q.client.LPush(ctx, q.keyPrefix+jobName, body).Err(); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrorTypeNetwork, "failed to enqueue job")
	}

	return taskID, nil
}

// Dequeue blocks until the next job arrives on jobName or ctx is cancelled,
// used by the OCR worker process's polling loop.
func (q *Queue) Dequeue(ctx context.Context, jobName string) (taskID string, payload map[string]interface{}, err error) {
	result, err := q.client.BRPop(ctx, 0, q.keyPrefix+jobName).Result()
	if err != nil {
		return "", nil, apperrors.Wrap(err, apperrors.ErrorTypeNetwork, "failed to dequeue job")
	}
	if len(result) != 2 {
		return "", nil, apperrors.New(apperrors.ErrorTypeInternal, "unexpected brpop result shape")
	}

	var env envelope
	if err := json.Unmarshal([]byte(result[1]), &env); err != nil {
		return "", nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to unmarshal job payload")
	}

	return env.TaskID, env.Payload, nil
}
