// jobs/dispatcher.go — kirim task ke queue
package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskOrderConfirmation = "email:order_confirmation"

type OrderConfirmationPayload struct {
	OrderID uint `json:"order_id"`
}

func NewOrderConfirmationTask(orderID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(OrderConfirmationPayload{OrderID: orderID})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskOrderConfirmation,
		payload,
		asynq.MaxRetry(5),
		asynq.Timeout(2*time.Minute),
	), nil
}

// Dispatcher membungkus asynq.Client sebagai ConfirmationEnqueuer
// untuk service layer.
type Dispatcher struct {
	client *asynq.Client
}

func NewDispatcher(client *asynq.Client) *Dispatcher {
	return &Dispatcher{client: client}
}

func (d *Dispatcher) EnqueueOrderConfirmation(orderID uint) error {
	task, err := NewOrderConfirmationTask(orderID)
	if err != nil {
		return err
	}
	_, err = d.client.Enqueue(task)
	return err
}
