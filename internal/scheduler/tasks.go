package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskSweepStale = "leads:sweep_stale"

const TaskRecycleBatch = "leads:recycle_batch"

type SweepStalePayload struct {
	ThresholdMinutes int `json:"thresholdMinutes"`
}

type RecycleBatchPayload struct {
	BatchID string `json:"batchId"`
}

func NewSweepStaleTask(payload SweepStalePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSweepStale, data), nil
}

func ParseSweepStalePayload(task *asynq.Task) (SweepStalePayload, error) {
	var payload SweepStalePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return SweepStalePayload{}, err
	}
	return payload, nil
}

func NewRecycleBatchTask(payload RecycleBatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRecycleBatch, data), nil
}

func ParseRecycleBatchPayload(task *asynq.Task) (RecycleBatchPayload, error) {
	var payload RecycleBatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RecycleBatchPayload{}, err
	}
	return payload, nil
}
