package queue

import (
	"encoding/json"

	"github.com/tokri-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderConfirmEmail 下单回执通知任务
	TaskOrderConfirmEmail = constants.TaskOrderConfirmEmail
	// TaskOrderStaleReminder 滞留订单提醒任务
	TaskOrderStaleReminder = constants.TaskOrderStaleReminder
)

// OrderConfirmEmailPayload 下单回执任务载荷
type OrderConfirmEmailPayload struct {
	OrderID uint `json:"order_id"`
}

// OrderStaleReminderPayload 滞留订单提醒任务载荷
type OrderStaleReminderPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderConfirmEmailTask 创建下单回执任务
func NewOrderConfirmEmailTask(payload OrderConfirmEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmEmail, body), nil
}

// NewOrderStaleReminderTask 创建滞留订单提醒任务
func NewOrderStaleReminderTask(payload OrderStaleReminderPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStaleReminder, body), nil
}
