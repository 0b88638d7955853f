package scheduler

import (
	"encoding/json"

	"retainly_backend/internal/scoring"

	"github.com/hibiken/asynq"
)

const TaskReviewDue = "reviews.review.due"

// ReviewDuePayload is self-contained: everything the worker needs to
// re-evaluate the customer and route the solicitation travels with the task,
// so the worker never reads back into the API's database.
type ReviewDuePayload struct {
	OrderID         string                  `json:"orderId"`
	EntityID        string                  `json:"entityId"`
	CustomerEmail   string                  `json:"customerEmail"`
	CustomerName    string                  `json:"customerName,omitempty"`
	OrderValueCents int64                   `json:"orderValueCents"`
	Signals         scoring.CustomerSignals `json:"signals"`
}

func NewReviewDueTask(payload ReviewDuePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReviewDue, data), nil
}

func ParseReviewDuePayload(task *asynq.Task) (ReviewDuePayload, error) {
	var payload ReviewDuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ReviewDuePayload{}, err
	}
	return payload, nil
}
