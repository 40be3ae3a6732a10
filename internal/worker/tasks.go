package worker

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task Types
const (
	TypeCommissionDistribute = "commission:distribute"
)

// DistributePayload is the payment-confirmed event: the payment service
// enqueues one per paid order.
type DistributePayload struct {
	OrderID     int     `json:"order_id"`
	BuyerID     int     `json:"buyer_id"`
	OrderAmount float64 `json:"order_amount"`
}

func NewDistributeTask(payload DistributePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCommissionDistribute, data), nil
}
