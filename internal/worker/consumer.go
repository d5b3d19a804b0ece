package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/tokri-next/internal/constants"
	"github.com/tokri-next/internal/logger"
	"github.com/tokri-next/internal/provider"
	"github.com/tokri-next/internal/queue"
	"github.com/tokri-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmEmail, c.handleOrderConfirmEmail)
	mux.HandleFunc(queue.TaskOrderStaleReminder, c.handleOrderStaleReminder)
}

func (c *Consumer) handleOrderConfirmEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderConfirmEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_confirm_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		return nil
	}
	order, err := c.OrderRepo.GetByIDWithItems(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_confirm_email_fetch_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_confirm_email_skip_not_found", "order_id", payload.OrderID)
		return nil
	}
	receiver := strings.TrimSpace(order.CustomerEmail)
	if receiver == "" {
		logger.Debugw("worker_order_confirm_email_skip_empty_receiver", "order_no", order.OrderNo)
		return nil
	}
	if err := c.EmailService.SendOrderConfirmEmail(receiver, order); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailServiceDisabled),
			errors.Is(err, service.ErrEmailServiceNotConfigured),
			errors.Is(err, service.ErrInvalidEmail):
			logger.Debugw("worker_order_confirm_email_skip", "order_no", order.OrderNo, "reason", err)
			return nil
		default:
			logger.Warnw("worker_order_confirm_email_send_failed", "order_no", order.OrderNo, "error", err)
			return err
		}
	}
	return nil
}

// handleOrderStaleReminder 下单 24 小时仍未确认时提醒运营
func (c *Consumer) handleOrderStaleReminder(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderStaleReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_stale_reminder_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_stale_reminder_fetch_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil || order.Status != constants.OrderStatusSubmitted {
		return nil
	}
	logger.Warnw("order_stale_submitted",
		"order_no", order.OrderNo,
		"customer_phone", order.CustomerPhone,
		"created_at", order.CreatedAt,
	)
	return nil
}
